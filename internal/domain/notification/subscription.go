package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
)

// Subscription is a user's push endpoint registration. One row per user;
// registering again replaces the prior endpoint.
type Subscription struct {
	shared.BaseEntity
	UserID   uuid.UUID
	Endpoint string
	P256dh   string
	Auth     string
}

// NewSubscription creates a push subscription for a user
func NewSubscription(userID uuid.UUID, endpoint, p256dh, auth string) (*Subscription, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "UserID is required")
	}
	if endpoint == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Endpoint is required")
	}
	if p256dh == "" || auth == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Subscription keys are required")
	}
	return &Subscription{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Endpoint:   endpoint,
		P256dh:     p256dh,
		Auth:       auth,
	}, nil
}

// SubscriptionRepository persists push subscriptions
type SubscriptionRepository interface {
	// FindByUserID returns ErrNotFound when the user has no registration
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error)
	// FindByUserIDs returns the subscriptions that exist for the given
	// users; users without one are simply absent from the result
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*Subscription, error)
	// Upsert stores the subscription, replacing the user's prior one
	Upsert(ctx context.Context, s *Subscription) error
	// DeleteByUserID removes a user's registration (opt-out)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	// DeleteByID removes one registration by row id. Expiry pruning uses
	// this so a concurrent re-registration is never clobbered.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
