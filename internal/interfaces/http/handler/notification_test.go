package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appnotification "github.com/tramites/backend/internal/application/notification"
	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/domain/shared"
	"github.com/tramites/backend/internal/domain/tramite"
	"github.com/tramites/backend/internal/infrastructure/config"
)

type memSubscriptionRepo struct {
	byUser map[uuid.UUID]*notification.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{byUser: make(map[uuid.UUID]*notification.Subscription)}
}

func (f *memSubscriptionRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*notification.Subscription, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (f *memSubscriptionRepo) FindByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]*notification.Subscription, error) {
	var out []*notification.Subscription
	for _, id := range userIDs {
		if s, ok := f.byUser[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *memSubscriptionRepo) Upsert(_ context.Context, s *notification.Subscription) error {
	f.byUser[s.UserID] = s
	return nil
}

func (f *memSubscriptionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	delete(f.byUser, userID)
	return nil
}

func (f *memSubscriptionRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	for userID, s := range f.byUser {
		if s.ID == id {
			delete(f.byUser, userID)
		}
	}
	return nil
}

type memPreferenceRepo struct {
	byUser map[uuid.UUID]*notification.Preference
}

func newMemPreferenceRepo() *memPreferenceRepo {
	return &memPreferenceRepo{byUser: make(map[uuid.UUID]*notification.Preference)}
}

func (f *memPreferenceRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*notification.Preference, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *memPreferenceRepo) Save(_ context.Context, p *notification.Preference) error {
	f.byUser[p.UserID] = p
	return nil
}

func setupNotificationRouter(t *testing.T, actor tramite.Actor) *gin.Engine {
	t.Helper()
	h := NewNotificationHandler(
		appnotification.NewSubscriptionService(newMemSubscriptionRepo(), zap.NewNop()),
		appnotification.NewPreferenceService(newMemPreferenceRepo(), zap.NewNop()),
		config.PushConfig{VAPIDPublicKey: "test-public-key"},
	)

	engine := gin.New()
	engine.GET("/api/v1/notificaciones/vapid-key", h.GetVAPIDKey)

	rg := engine.Group("/api/v1/notificaciones", withActor(actor))
	rg.POST("/subscription", h.Subscribe)
	rg.GET("/subscription", h.GetSubscription)
	rg.DELETE("/subscription", h.Unsubscribe)
	rg.DELETE("/subscriptions/:user_id", h.UnsubscribeUser)
	rg.GET("/preferences", h.GetPreferences)
	rg.PUT("/preferences", h.UpdatePreferences)
	return engine
}

func TestNotificationHandler_GetVAPIDKey(t *testing.T) {
	engine := setupNotificationRouter(t, tramite.Actor{UserID: uuid.New()})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notificaciones/vapid-key", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test-public-key")
}

func TestNotificationHandler_SubscribeLifecycle(t *testing.T) {
	actor := tramite.Actor{UserID: uuid.New(), Roles: []tramite.Role{tramite.RoleSolicitador}}
	engine := setupNotificationRouter(t, actor)

	body, _ := json.Marshal(gin.H{
		"endpoint": "https://push.example.com/send/abc123",
		"keys":     gin.H{"p256dh": "key-p256dh", "auth": "key-auth"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notificaciones/subscription", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// keys must not be echoed back
	assert.NotContains(t, w.Body.String(), "key-auth")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notificaciones/subscription", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/notificaciones/subscription", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notificaciones/subscription", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandler_Subscribe_InvalidBody(t *testing.T) {
	actor := tramite.Actor{UserID: uuid.New()}
	engine := setupNotificationRouter(t, actor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notificaciones/subscription", bytes.NewReader([]byte(`{"endpoint":"not-a-url"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandler_UnsubscribeUser_RequiresAdmin(t *testing.T) {
	actor := tramite.Actor{UserID: uuid.New(), Roles: []tramite.Role{tramite.RoleSolicitador}}
	engine := setupNotificationRouter(t, actor)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/notificaciones/subscriptions/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNotificationHandler_Preferences(t *testing.T) {
	actor := tramite.Actor{UserID: uuid.New(), Roles: []tramite.Role{tramite.RoleSolicitador}}
	engine := setupNotificationRouter(t, actor)

	// first read lazily creates the default row with both switches on
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notificaciones/preferences", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notify_requisiciones":true`)

	body, _ := json.Marshal(gin.H{"notify_requisiciones": false, "notify_reposiciones": true})
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/notificaciones/preferences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"notify_requisiciones":false`)
}
