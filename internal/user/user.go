package user

import (
	"time"

	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	userDatamodel "github.com/framil09/prefeitura--sub000/internal/core/datamodel/user"
)

// User is a staff member of the municipal portal. Role and secretaria are
// assigned by the external provisioning flow and read-only here.
type User struct {
	ID           int64              `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	PasswordHash string             `json:"-"`
	Role         accesscontrol.Role `json:"role"`
	SecretariaID *int64             `json:"secretaria_id,omitempty"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == accesscontrol.RoleAdmin
}

func (u *User) Identity() accesscontrol.Identity {
	return accesscontrol.Identity{
		UserID:       u.ID,
		Role:         u.Role,
		SecretariaID: u.SecretariaID,
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	role, _ := accesscontrol.ParseRole(dm.Role)
	return &User{
		ID:           dm.ID,
		Email:        dm.Email,
		Name:         dm.Name,
		PasswordHash: dm.PasswordHash,
		Role:         role,
		SecretariaID: dm.SecretariaID,
		IsActive:     dm.IsActive,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
	}
}
