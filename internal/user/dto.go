package user

import "github.com/framil09/prefeitura--sub000/internal/accesscontrol"

type UserResponse struct {
	ID           int64              `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Role         accesscontrol.Role `json:"role"`
	SecretariaID *int64             `json:"secretaria_id,omitempty"`
	IsActive     bool               `json:"is_active"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		SecretariaID: u.SecretariaID,
		IsActive:     u.IsActive,
	}
}
