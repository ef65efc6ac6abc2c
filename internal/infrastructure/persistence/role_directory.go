package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/infrastructure/persistence/models"
)

// GormRoleDirectory resolves role membership from the user_roles projection
type GormRoleDirectory struct {
	db *gorm.DB
}

// NewGormRoleDirectory creates a new GormRoleDirectory
func NewGormRoleDirectory(db *gorm.DB) *GormRoleDirectory {
	return &GormRoleDirectory{db: db}
}

// MembersOf returns the user ids currently holding the role
func (d *GormRoleDirectory) MembersOf(ctx context.Context, role tramite.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&models.UserRoleModel{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormRoleDirectory implements the domain contract
var _ notification.RoleDirectory = (*GormRoleDirectory)(nil)
