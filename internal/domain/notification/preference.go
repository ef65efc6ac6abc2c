package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

// Preference holds a user's per-category notification opt-ins.
// Created lazily on first access; both categories default to on.
type Preference struct {
	shared.BaseEntity
	UserID              uuid.UUID
	NotifyRequisiciones bool
	NotifyReposiciones  bool
}

// NewPreference creates the default preference row for a user
func NewPreference(userID uuid.UUID) *Preference {
	return &Preference{
		BaseEntity:          shared.NewBaseEntity(),
		UserID:              userID,
		NotifyRequisiciones: true,
		NotifyReposiciones:  true,
	}
}

// Allows reports whether the user accepts notifications for the tramite type
func (p *Preference) Allows(t tramite.Type) bool {
	if t == tramite.TypeReimbursement {
		return p.NotifyReposiciones
	}
	return p.NotifyRequisiciones
}

// PreferenceRepository persists notification preferences
type PreferenceRepository interface {
	// FindByUserID returns ErrNotFound when the user has no stored row
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Preference, error)
	Save(ctx context.Context, p *Preference) error
}

// FilterByPreference narrows candidate user ids to those accepting the
// category, deduplicating along the way. Users without a stored row and
// lookup failures are treated as opted-in: a broken preference read must
// never suppress a notification.
func FilterByPreference(ctx context.Context, repo PreferenceRepository, userIDs []uuid.UUID, t tramite.Type) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	result := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		pref, err := repo.FindByUserID(ctx, id)
		if err != nil || pref == nil {
			result = append(result, id)
			continue
		}
		if pref.Allows(t) {
			result = append(result, id)
		}
	}
	return result
}
