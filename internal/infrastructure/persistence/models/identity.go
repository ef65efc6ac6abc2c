package models

import "github.com/google/uuid"

// UserRoleModel maps users to their workflow roles. Identity itself is
// managed by the upstream auth service; this projection is what role
// broadcasts read.
type UserRoleModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role,priority:1"`
	Role   string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_user_role,priority:2;index"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}
