package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

// SubscribeRequest carries a browser push registration
type SubscribeRequest struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// SubscriptionService manages push endpoint registrations.
// One registration per user; subscribing again replaces the prior one.
type SubscriptionService struct {
	repo   notification.SubscriptionRepository
	logger *zap.Logger
}

// NewSubscriptionService creates a subscription service
func NewSubscriptionService(repo notification.SubscriptionRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		logger: logger,
	}
}

// Subscribe registers the acting user's push endpoint
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, req SubscribeRequest) (*notification.Subscription, error) {
	sub, err := notification.NewSubscription(userID, req.Endpoint, req.P256dh, req.Auth)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("push subscription registered", zap.String("user_id", userID.String()))
	return sub, nil
}

// Unsubscribe removes the acting user's registration
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("push subscription removed", zap.String("user_id", userID.String()))
	return nil
}

// UnsubscribeUser removes another user's registration on their behalf.
// Reserved for administrators.
func (s *SubscriptionService) UnsubscribeUser(ctx context.Context, actor tramite.Actor, userID uuid.UUID) error {
	if !actor.IsSuperadmin() && !actor.HasRole(tramite.RoleAdmin) {
		return shared.ErrUnauthorized
	}
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("push subscription removed by admin",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actor.UserID.String()))
	return nil
}

// Get returns the user's current registration
func (s *SubscriptionService) Get(ctx context.Context, userID uuid.UUID) (*notification.Subscription, error) {
	return s.repo.FindByUserID(ctx, userID)
}
