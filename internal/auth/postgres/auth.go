package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/framil09/prefeitura--sub000/internal"
	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	"github.com/framil09/prefeitura--sub000/internal/auth"
	"gorm.io/gorm"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) auth.IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) GetIdentity(ctx context.Context, userID int64) (*accesscontrol.Identity, error) {
	var (
		role         string
		secretariaID sql.NullInt64
		isActive     bool
	)

	row := r.db.WithContext(ctx).
		Raw(`SELECT role, secretaria_id, is_active FROM users WHERE id = ?`, userID).
		Row()
	if err := row.Scan(&role, &secretariaID, &isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if !isActive {
		return nil, apperrors.ErrUserInactive
	}

	parsedRole, ok := accesscontrol.ParseRole(role)
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	identity := &accesscontrol.Identity{
		UserID: userID,
		Role:   parsedRole,
	}
	if secretariaID.Valid {
		identity.SecretariaID = &secretariaID.Int64
	}
	return identity, nil
}
