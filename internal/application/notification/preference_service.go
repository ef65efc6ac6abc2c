package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/shared"
)

// PreferenceService manages per-user notification preferences.
// Rows are created lazily with both categories on.
type PreferenceService struct {
	repo   notification.PreferenceRepository
	logger *zap.Logger
}

// NewPreferenceService creates a preference service
func NewPreferenceService(repo notification.PreferenceRepository, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the user's preferences, creating the default row on first access
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*notification.Preference, error) {
	pref, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if domainErr, ok := err.(*shared.DomainError); !ok || domainErr.Code != "NOT_FOUND" {
		return nil, err
	}

	pref = notification.NewPreference(userID)
	if err := s.repo.Save(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// Update sets the user's category flags
func (s *PreferenceService) Update(ctx context.Context, userID uuid.UUID, notifyRequisiciones, notifyReposiciones bool) (*notification.Preference, error) {
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	pref.NotifyRequisiciones = notifyRequisiciones
	pref.NotifyReposiciones = notifyReposiciones
	if err := s.repo.Save(ctx, pref); err != nil {
		return nil, err
	}

	s.logger.Info("notification preferences updated",
		zap.String("user_id", userID.String()),
		zap.Bool("requisiciones", notifyRequisiciones),
		zap.Bool("reposiciones", notifyReposiciones))
	return pref, nil
}
