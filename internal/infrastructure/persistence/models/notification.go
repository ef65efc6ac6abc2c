package models

import (
	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/notification"
)

// PreferenceModel is the persistence model for notification preferences.
type PreferenceModel struct {
	BaseModel
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	NotifyRequisiciones bool      `gorm:"not null;default:true"`
	NotifyReposiciones  bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PreferenceModel) TableName() string {
	return "notification_preferences"
}

// ToDomain converts the persistence model to a domain Preference.
func (m *PreferenceModel) ToDomain() *notification.Preference {
	return &notification.Preference{
		BaseEntity:          m.BaseModel.ToDomain(),
		UserID:              m.UserID,
		NotifyRequisiciones: m.NotifyRequisiciones,
		NotifyReposiciones:  m.NotifyReposiciones,
	}
}

// FromDomain populates the persistence model from a domain Preference.
func (m *PreferenceModel) FromDomain(p *notification.Preference) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.UserID = p.UserID
	m.NotifyRequisiciones = p.NotifyRequisiciones
	m.NotifyReposiciones = p.NotifyReposiciones
}

// SubscriptionModel is the persistence model for push subscriptions.
// The unique index on user_id enforces one registration per user.
type SubscriptionModel struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Endpoint string    `gorm:"type:text;not null"`
	P256dh   string    `gorm:"type:text;not null"`
	Auth     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "push_subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription.
func (m *SubscriptionModel) ToDomain() *notification.Subscription {
	return &notification.Subscription{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Endpoint:   m.Endpoint,
		P256dh:     m.P256dh,
		Auth:       m.Auth,
	}
}

// FromDomain populates the persistence model from a domain Subscription.
func (m *SubscriptionModel) FromDomain(s *notification.Subscription) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.UserID = s.UserID
	m.Endpoint = s.Endpoint
	m.P256dh = s.P256dh
	m.Auth = s.Auth
}
