package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/infrastructure/persistence/models"
)

// GormPreferenceRepository implements notification.PreferenceRepository using GORM
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GormPreferenceRepository
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// FindByUserID finds a user's notification preference row
func (r *GormPreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*notification.Preference, error) {
	var model models.PreferenceModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts a user's preference row keyed by user_id
func (r *GormPreferenceRepository) Save(ctx context.Context, p *notification.Preference) error {
	model := &models.PreferenceModel{}
	model.FromDomain(p)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"notify_requisiciones", "notify_reposiciones", "updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormPreferenceRepository implements the domain contract
var _ notification.PreferenceRepository = (*GormPreferenceRepository)(nil)
