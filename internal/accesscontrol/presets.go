package accesscontrol

import (
	errors "github.com/framil09/prefeitura--sub000/internal"
)

// Preset is a named bundle of section assignments applied in bulk when an
// operator provisions a typical profile for a non-administrator user.
type Preset string

const (
	PresetEditor         Preset = "EDITOR"
	PresetDepartmentLead Preset = "DEPARTMENT_LEAD"
)

func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case PresetEditor, PresetDepartmentLead:
		return Preset(s), nil
	}
	return "", errors.ErrUnknownPreset
}

var presetTables = map[Preset]map[Section]bool{
	PresetEditor: {
		SectionDashboard: true,
		SectionNoticias:  true,
		SectionGaleria:   true,
	},
	PresetDepartmentLead: {
		SectionDashboard:  true,
		SectionLicitacoes: true,
		SectionEditais:    true,
		SectionEmendas:    true,
		SectionNoticias:   true,
		SectionGaleria:    true,
	},
}

// Rows materializes the preset into one override per section, in canonical
// section order. Sections absent from the bundle are explicit denials.
func (p Preset) Rows(userID int64) []Override {
	grants := presetTables[p]
	rows := make([]Override, 0, len(allSections))
	for _, sec := range allSections {
		rows = append(rows, Override{
			UserID:  userID,
			Section: sec,
			Allowed: grants[sec],
		})
	}
	return rows
}
