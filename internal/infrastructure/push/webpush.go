package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/tramites/backend/internal/domain/notification"
)

// ErrGone marks an endpoint the push service reports as permanently
// invalid. The dispatcher reacts by pruning the subscription.
var ErrGone = errors.New("push endpoint gone")

// Config holds the Web Push (VAPID) settings
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTL             int
	Timeout         time.Duration
}

// Sender performs one delivery attempt against a subscription's endpoint
type Sender interface {
	Send(ctx context.Context, sub *notification.Subscription, payload []byte) error
}

// WebPushSender sends VAPID-signed push messages
type WebPushSender struct {
	config Config
}

// NewWebPushSender creates a web push sender
func NewWebPushSender(config Config) *WebPushSender {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.TTL <= 0 {
		config.TTL = 3600
	}
	return &WebPushSender{config: config}
}

// Send delivers the payload to one endpoint. A 2xx response means the push
// service accepted the message, not that the device received it.
func (s *WebPushSender) Send(ctx context.Context, sub *notification.Subscription, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.config.Subscriber,
		VAPIDPublicKey:  s.config.VAPIDPublicKey,
		VAPIDPrivateKey: s.config.VAPIDPrivateKey,
		TTL:             s.config.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
