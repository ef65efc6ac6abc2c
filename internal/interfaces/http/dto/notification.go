package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/notification"
)

// SubscribeRequest carries the browser push subscription in the
// standard Web Push format (endpoint plus the two client keys).
type SubscribeRequest struct {
	Endpoint string           `json:"endpoint" binding:"required,url"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

// SubscriptionKeys are the client-side encryption keys of a push subscription
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SubscriptionResponse is the API view of a push subscription
type SubscriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionResponseFromDomain converts a subscription to its API view.
// The encryption keys are never echoed back.
func SubscriptionResponseFromDomain(s *notification.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// UpdatePreferenceRequest toggles the per-workflow notification switches
type UpdatePreferenceRequest struct {
	NotifyRequisiciones *bool `json:"notify_requisiciones" binding:"required"`
	NotifyReposiciones  *bool `json:"notify_reposiciones" binding:"required"`
}

// PreferenceResponse is the API view of a notification preference
type PreferenceResponse struct {
	UserID              uuid.UUID `json:"user_id"`
	NotifyRequisiciones bool      `json:"notify_requisiciones"`
	NotifyReposiciones  bool      `json:"notify_reposiciones"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PreferenceResponseFromDomain converts a preference to its API view
func PreferenceResponseFromDomain(p *notification.Preference) PreferenceResponse {
	return PreferenceResponse{
		UserID:              p.UserID,
		NotifyRequisiciones: p.NotifyRequisiciones,
		NotifyReposiciones:  p.NotifyReposiciones,
		UpdatedAt:           p.UpdatedAt,
	}
}

// VAPIDKeyResponse exposes the server's public VAPID key for browser subscription
type VAPIDKeyResponse struct {
	PublicKey string `json:"public_key"`
}
