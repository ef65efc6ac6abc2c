package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
)

type stubPreferenceRepo struct {
	prefs map[uuid.UUID]*Preference
	err   error
}

func (s *stubPreferenceRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*Preference, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.prefs[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (s *stubPreferenceRepo) Save(_ context.Context, p *Preference) error {
	s.prefs[p.UserID] = p
	return nil
}

func TestNewPreference_Defaults(t *testing.T) {
	p := NewPreference(uuid.New())
	assert.True(t, p.NotifyRequisiciones)
	assert.True(t, p.NotifyReposiciones)
	assert.True(t, p.Allows(tramite.TypeRequisition))
	assert.True(t, p.Allows(tramite.TypeReimbursement))
}

func TestFilterByPreference(t *testing.T) {
	optedOut := uuid.New()
	optedIn := uuid.New()
	noRow := uuid.New()

	repo := &stubPreferenceRepo{prefs: map[uuid.UUID]*Preference{}}
	out := NewPreference(optedOut)
	out.NotifyRequisiciones = false
	repo.prefs[optedOut] = out
	repo.prefs[optedIn] = NewPreference(optedIn)

	result := FilterByPreference(context.Background(), repo,
		[]uuid.UUID{optedOut, optedIn, noRow}, tramite.TypeRequisition)

	assert.NotContains(t, result, optedOut)
	assert.Contains(t, result, optedIn)
	assert.Contains(t, result, noRow, "missing rows are opted-in by default")
}

func TestFilterByPreference_PerCategoryFlags(t *testing.T) {
	user := uuid.New()
	repo := &stubPreferenceRepo{prefs: map[uuid.UUID]*Preference{}}
	p := NewPreference(user)
	p.NotifyRequisiciones = false
	repo.prefs[user] = p

	// excluded from requisition events even when directly targeted
	assert.Empty(t, FilterByPreference(context.Background(), repo, []uuid.UUID{user}, tramite.TypeRequisition))
	// but still included for reimbursement events
	assert.Equal(t, []uuid.UUID{user},
		FilterByPreference(context.Background(), repo, []uuid.UUID{user}, tramite.TypeReimbursement))
}

func TestFilterByPreference_FailOpen(t *testing.T) {
	user := uuid.New()
	repo := &stubPreferenceRepo{err: errors.New("db down")}

	result := FilterByPreference(context.Background(), repo, []uuid.UUID{user}, tramite.TypeRequisition)
	assert.Equal(t, []uuid.UUID{user}, result)
}

func TestFilterByPreference_Dedupes(t *testing.T) {
	user := uuid.New()
	repo := &stubPreferenceRepo{prefs: map[uuid.UUID]*Preference{}}

	result := FilterByPreference(context.Background(), repo,
		[]uuid.UUID{user, user, uuid.Nil}, tramite.TypeRequisition)
	assert.Equal(t, []uuid.UUID{user}, result)
}
