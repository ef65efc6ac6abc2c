package push

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tramites/backend/internal/domain/notification"
)

// Dispatcher fans a payload out to the recipients' registered endpoints.
// One goroutine per subscription, each attempt isolated: a slow or broken
// endpoint never affects the others, and nothing here propagates back to
// the transition that triggered the notification.
type Dispatcher struct {
	subscriptions notification.SubscriptionRepository
	sender        Sender
	logger        *zap.Logger
}

// NewDispatcher creates a push dispatcher
func NewDispatcher(subscriptions notification.SubscriptionRepository, sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		subscriptions: subscriptions,
		sender:        sender,
		logger:        logger,
	}
}

// Dispatch implements notification.Dispatcher. Recipients without a
// subscription are skipped. Gone endpoints are pruned by subscription row
// id, so a re-registration racing with the prune is never clobbered.
func (d *Dispatcher) Dispatch(ctx context.Context, userIDs []uuid.UUID, payload notification.Payload) notification.DispatchResult {
	if len(userIDs) == 0 {
		return notification.DispatchResult{}
	}

	subs, err := d.subscriptions.FindByUserIDs(ctx, userIDs)
	if err != nil {
		d.logger.Error("failed to load push subscriptions", zap.Error(err))
		return notification.DispatchResult{}
	}
	if len(subs) == 0 {
		return notification.DispatchResult{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("failed to marshal push payload", zap.Error(err))
		return notification.DispatchResult{}
	}

	var sent, failed atomic.Int64
	var wg sync.WaitGroup

	for _, sub := range subs {
		wg.Add(1)
		go func(sub *notification.Subscription) {
			defer wg.Done()

			err := d.sender.Send(ctx, sub, body)
			if err == nil {
				sent.Add(1)
				return
			}

			failed.Add(1)
			if errors.Is(err, ErrGone) {
				if delErr := d.subscriptions.DeleteByID(ctx, sub.ID); delErr != nil {
					d.logger.Error("failed to prune gone subscription",
						zap.String("subscription_id", sub.ID.String()),
						zap.Error(delErr))
				} else {
					d.logger.Info("pruned gone push subscription",
						zap.String("subscription_id", sub.ID.String()),
						zap.String("user_id", sub.UserID.String()))
				}
				return
			}

			d.logger.Warn("push delivery failed",
				zap.String("user_id", sub.UserID.String()),
				zap.Error(err))
		}(sub)
	}

	wg.Wait()
	return notification.DispatchResult{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}
}

// Ensure Dispatcher implements the domain contract
var _ notification.Dispatcher = (*Dispatcher)(nil)
