package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appnotification "github.com/tramites/backend/internal/application/notification"
	"github.com/tramites/backend/internal/infrastructure/config"
	"github.com/tramites/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles push subscription and preference endpoints
type NotificationHandler struct {
	BaseHandler
	subscriptions *appnotification.SubscriptionService
	preferences   *appnotification.PreferenceService
	pushCfg       config.PushConfig
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	subscriptions *appnotification.SubscriptionService,
	preferences *appnotification.PreferenceService,
	pushCfg config.PushConfig,
) *NotificationHandler {
	return &NotificationHandler{
		subscriptions: subscriptions,
		preferences:   preferences,
		pushCfg:       pushCfg,
	}
}

// GetVAPIDKey returns the public VAPID key browsers need to subscribe
func (h *NotificationHandler) GetVAPIDKey(c *gin.Context) {
	h.Success(c, dto.VAPIDKeyResponse{PublicKey: h.pushCfg.VAPIDPublicKey})
}

// Subscribe registers or replaces the caller's push subscription
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), userID, appnotification.SubscribeRequest{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.SubscriptionResponseFromDomain(sub))
}

// Unsubscribe removes the caller's push subscription
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnsubscribeUser removes another user's subscription, admin only
func (h *NotificationHandler) UnsubscribeUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userIDStr := c.Param("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.subscriptions.UnsubscribeUser(c.Request.Context(), actor, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSubscription returns the caller's current push subscription
func (h *NotificationHandler) GetSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sub, err := h.subscriptions.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SubscriptionResponseFromDomain(sub))
}

// GetPreferences returns the caller's notification preferences
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	pref, err := h.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.PreferenceResponseFromDomain(pref))
}

// UpdatePreferences updates the caller's per-workflow notification switches
func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pref, err := h.preferences.Update(c.Request.Context(), userID, *req.NotifyRequisiciones, *req.NotifyReposiciones)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.PreferenceResponseFromDomain(pref))
}
