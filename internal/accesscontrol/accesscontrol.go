package accesscontrol

import (
	errors "github.com/framil09/prefeitura--sub000/internal"
)

// Role is the coarse staff classification. It hard-gates menu visibility
// before any override is consulted; adding a role is a deploy-time change.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleDepartmentLead Role = "department_lead"
	RoleEditor         Role = "editor"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDepartmentLead, RoleEditor:
		return Role(s), true
	}
	return "", false
}

// Section is one admin feature area subject to override gating. The set is
// closed: overrides referencing anything else are rejected.
type Section string

const (
	SectionDashboard       Section = "dashboard"
	SectionGestaoMunicipal Section = "gestao_municipal"
	SectionSecretarias     Section = "secretarias"
	SectionTurismo         Section = "turismo"
	SectionLicitacoes      Section = "licitacoes"
	SectionEditais         Section = "editais"
	SectionEmendas         Section = "emendas"
	SectionNoticias        Section = "noticias"
	SectionGaleria         Section = "galeria"
	SectionUsuarios        Section = "usuarios"
	SectionPermissoes      Section = "permissoes"
	SectionConfiguracoes   Section = "configuracoes"
	SectionTransparencia   Section = "transparencia"
)

var allSections = []Section{
	SectionDashboard,
	SectionGestaoMunicipal,
	SectionSecretarias,
	SectionTurismo,
	SectionLicitacoes,
	SectionEditais,
	SectionEmendas,
	SectionNoticias,
	SectionGaleria,
	SectionUsuarios,
	SectionPermissoes,
	SectionConfiguracoes,
	SectionTransparencia,
}

// Sections returns the closed enumeration in its canonical order.
func Sections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

func ParseSection(s string) (Section, error) {
	for _, sec := range allSections {
		if Section(s) == sec {
			return sec, nil
		}
	}
	return "", errors.ErrUnknownSection
}

// Identity is the authenticated caller, threaded explicitly into every
// access decision so the evaluator stays pure.
type Identity struct {
	UserID       int64  `json:"user_id"`
	Role         Role   `json:"role"`
	SecretariaID *int64 `json:"secretaria_id,omitempty"`
}

// Override is one explicit per-user, per-section verdict.
type Override struct {
	UserID  int64   `json:"user_id"`
	Section Section `json:"section"`
	Allowed bool    `json:"allowed"`
}
