package postgres

import (
	"context"
	"errors"

	apperrors "github.com/framil09/prefeitura--sub000/internal"
	userDatamodel "github.com/framil09/prefeitura--sub000/internal/core/datamodel/user"
	"github.com/framil09/prefeitura--sub000/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for _, dm := range rows {
		users = append(users, user.FromDataModel(dm))
	}
	return users, nil
}
