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

// GormSubscriptionRepository implements notification.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByUserID finds a user's push subscription
func (r *GormSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*notification.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserIDs finds the subscriptions that exist for the given users
func (r *GormSubscriptionRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*notification.Subscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	subs := make([]*notification.Subscription, len(rows))
	for i := range rows {
		subs[i] = rows[i].ToDomain()
	}
	return subs, nil
}

// Upsert stores the subscription, replacing the user's prior registration.
// Re-registering refreshes the endpoint and keys in place.
func (r *GormSubscriptionRepository) Upsert(ctx context.Context, s *notification.Subscription) error {
	model := &models.SubscriptionModel{}
	model.FromDomain(s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"endpoint", "p256dh", "auth", "updated_at",
			}),
		}).
		Create(model).Error
}

// DeleteByUserID removes a user's registration
func (r *GormSubscriptionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.SubscriptionModel{}).Error
}

// DeleteByID removes one registration by row id. A subscription replaced
// since the caller loaded it has a new row id and is left alone.
func (r *GormSubscriptionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SubscriptionModel{}).Error
}

// Ensure GormSubscriptionRepository implements the domain contract
var _ notification.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
