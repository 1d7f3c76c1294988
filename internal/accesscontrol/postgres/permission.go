package postgres

import (
	"context"

	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	permissionDatamodel "github.com/framil09/prefeitura--sub000/internal/core/datamodel/permission"
	userDatamodel "github.com/framil09/prefeitura--sub000/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) accesscontrol.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) ListOverrides(ctx context.Context, userID int64) ([]accesscontrol.Override, error) {
	var rows []*permissionDatamodel.SectionOverride
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("section ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	overrides := make([]accesscontrol.Override, 0, len(rows))
	for _, row := range rows {
		overrides = append(overrides, fromDataModel(row))
	}
	return overrides, nil
}

func (r *PermissionRepository) UpsertOverride(ctx context.Context, override accesscontrol.Override) (accesscontrol.Override, error) {
	row := toDataModel(override)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "section"}},
			DoUpdates: clause.AssignmentColumns([]string{"allowed", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return accesscontrol.Override{}, err
	}

	// Return the persisted row, not the request, so callers always see
	// stored state.
	var persisted permissionDatamodel.SectionOverride
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND section = ?", override.UserID, string(override.Section)).
		First(&persisted).Error
	if err != nil {
		return accesscontrol.Override{}, err
	}
	return fromDataModel(&persisted), nil
}

// ApplyOverrides writes the whole batch in one transaction: either every
// row of a preset lands or none of them do.
func (r *PermissionRepository) ApplyOverrides(ctx context.Context, userID int64, rows []accesscontrol.Override) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, override := range rows {
			err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "section"}},
					DoUpdates: clause.AssignmentColumns([]string{"allowed", "updated_at"}),
				}).
				Create(toDataModel(override)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PermissionRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toDataModel(o accesscontrol.Override) *permissionDatamodel.SectionOverride {
	return &permissionDatamodel.SectionOverride{
		UserID:  o.UserID,
		Section: string(o.Section),
		Allowed: o.Allowed,
	}
}

func fromDataModel(row *permissionDatamodel.SectionOverride) accesscontrol.Override {
	return accesscontrol.Override{
		UserID:  row.UserID,
		Section: accesscontrol.Section(row.Section),
		Allowed: row.Allowed,
	}
}
