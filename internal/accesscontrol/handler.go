package accesscontrol

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/framil09/prefeitura--sub000/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListOverrides(ctx context.Context, userID int64) ([]Override, error)
	SetOverride(ctx context.Context, userID int64, section string, allowed bool) (Override, error)
	ApplyPreset(ctx context.Context, userID int64, presetName string) error
	CanAccessSection(ctx context.Context, id Identity, section Section) (bool, error)
	VisibleMenu(ctx context.Context, id Identity) ([]MenuEntry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// GetMenu handles GET /menu: the admin shell asks which entries the
// current user may see.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.VisibleMenu(r.Context(), identity)
	if err != nil {
		h.Logger.Error("GetMenu: evaluation failed", "user_id", identity.UserID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MenuResponse{Entries: entries})
}

// ListPermissions handles GET /users/{id}/permissions.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.ListOverrides(r.Context(), userID)
	if err != nil {
		h.Logger.Error("ListPermissions failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toOverridesResponse(userID, rows))
}

// SetPermission handles PUT /users/{id}/permissions/{section}.
func (h *Handler) SetPermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}
	section := chi.URLParam(r, "section")

	var dto SetOverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.Service.SetOverride(r.Context(), userID, section, *dto.Allowed)
	if err != nil {
		h.Logger.Error("SetPermission failed",
			"user_id", userID, "section", section, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, OverrideResponse{Section: row.Section, Allowed: row.Allowed})
}

// ApplyPreset handles POST /users/{id}/permissions/preset. The response is
// a re-read of the stored rows so the operator always sees actual state.
func (h *Handler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	var dto ApplyPresetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.ApplyPreset(r.Context(), userID, dto.Preset); err != nil {
		h.Logger.Error("ApplyPreset failed",
			"user_id", userID, "preset", dto.Preset, "error", err)
		h.WriteAppError(w, err)
		return
	}

	rows, err := h.Service.ListOverrides(r.Context(), userID)
	if err != nil {
		h.Logger.Error("ApplyPreset: re-read failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toOverridesResponse(userID, rows))
}

// RequireSection gates a route group on the caller's access to one admin
// section. A store failure withholds the resource instead of guessing.
func (h *Handler) RequireSection(section Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				h.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			allowed, err := h.Service.CanAccessSection(r.Context(), identity, section)
			if err != nil {
				h.Logger.Error("section gate evaluation failed",
					"user_id", identity.UserID, "section", section, "error", err)
				h.WriteAppError(w, err)
				return
			}

			if !allowed {
				h.Logger.Warn("access denied",
					"user_id", identity.UserID, "section", section)
				h.WriteError(w, http.StatusForbidden, "forbidden: section not allowed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) targetUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return userID, true
}
