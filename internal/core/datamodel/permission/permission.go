package permission

import "time"

// SectionOverride is one explicit per-user, per-section grant or denial.
// The unique index guarantees at most one row per (user, section) pair.
type SectionOverride struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_overrides_user_section"`
	Section   string    `gorm:"column:section;not null;uniqueIndex:idx_overrides_user_section"`
	Allowed   bool      `gorm:"column:allowed;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (SectionOverride) TableName() string {
	return "section_overrides"
}
