package accesscontrol

// SetOverrideDTO is the body of PUT /users/{id}/permissions/{section}.
type SetOverrideDTO struct {
	Allowed *bool `json:"allowed"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d SetOverrideDTO) Validate() error {
	if d.Allowed == nil {
		return ValidationError{Msg: "allowed is required"}
	}
	return nil
}

// ApplyPresetDTO is the body of POST /users/{id}/permissions/preset.
type ApplyPresetDTO struct {
	Preset string `json:"preset"`
}

func (d ApplyPresetDTO) Validate() error {
	if d.Preset == "" {
		return ValidationError{Msg: "preset is required"}
	}
	return nil
}

type OverrideResponse struct {
	Section Section `json:"section"`
	Allowed bool    `json:"allowed"`
}

type OverridesResponse struct {
	UserID    int64              `json:"user_id"`
	Overrides []OverrideResponse `json:"overrides"`
}

func toOverridesResponse(userID int64, rows []Override) OverridesResponse {
	resp := OverridesResponse{UserID: userID, Overrides: make([]OverrideResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Overrides = append(resp.Overrides, OverrideResponse{Section: row.Section, Allowed: row.Allowed})
	}
	return resp
}

type MenuResponse struct {
	Entries []MenuEntry `json:"entries"`
}
