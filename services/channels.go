package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/models"
)

// ErrSkipped means the channel does not apply to this user or is disabled.
var ErrSkipped = errors.New("channel skipped")

// Channel delivers a stored notification to one user.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, u *models.User, n *models.Notification, s models.NotificationSettings) error
}

// Pusher sends a realtime message to a connected user.
type Pusher interface {
	SendToUser(userID primitive.ObjectID, message interface{}) error
	IsConnected(userID primitive.ObjectID) bool
}

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// FCMSender is the subset of *messaging.Client used for push.
type FCMSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// RealtimeMessage is the websocket frame for a notification.
type RealtimeMessage struct {
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Data    *models.Notification `json:"data,omitempty"`
}

type WebSocketChannel struct {
	hub Pusher
}

func NewWebSocketChannel(hub Pusher) *WebSocketChannel {
	return &WebSocketChannel{hub: hub}
}

func (c *WebSocketChannel) Name() string { return models.ChannelWebSocket }

func (c *WebSocketChannel) Deliver(_ context.Context, u *models.User, n *models.Notification, _ models.NotificationSettings) error {
	if c.hub == nil || !c.hub.IsConnected(u.ID) {
		return ErrSkipped
	}
	return c.hub.SendToUser(u.ID, RealtimeMessage{Type: n.Type, Message: n.Title, Data: n})
}

func newBreaker(name string) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
}

// PushChannel sends through Firebase Cloud Messaging behind a circuit breaker.
type PushChannel struct {
	client  FCMSender
	breaker *gobreaker.CircuitBreaker[string]
}

// NewPushChannel returns nil when client is nil.
func NewPushChannel(client FCMSender) *PushChannel {
	if client == nil {
		return nil
	}
	return &PushChannel{client: client, breaker: newBreaker("fcm")}
}

func (c *PushChannel) Name() string { return models.ChannelPush }

func (c *PushChannel) Deliver(ctx context.Context, u *models.User, n *models.Notification, s models.NotificationSettings) error {
	if !s.PushEnabled || u.FCMToken == "" {
		return ErrSkipped
	}
	data := map[string]string{
		"type":           n.Type,
		"notificationId": n.ID.Hex(),
		"timestamp":      n.CreatedAt.Format(time.RFC3339),
	}
	for k, v := range n.Data {
		data[k] = fmt.Sprint(v)
	}
	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "storefront_cart",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: n.Title, Body: n.Message},
					Sound: "default",
				},
			},
		},
	}
	_, err := c.breaker.Execute(func() (string, error) {
		return c.client.Send(ctx, msg)
	})
	return err
}

// EmailChannel mails the notification behind a circuit breaker.
type EmailChannel struct {
	mailer  Mailer
	breaker *gobreaker.CircuitBreaker[string]
}

// NewEmailChannel returns nil when mailer is nil.
func NewEmailChannel(mailer Mailer) *EmailChannel {
	if mailer == nil {
		return nil
	}
	return &EmailChannel{mailer: mailer, breaker: newBreaker("smtp")}
}

func (c *EmailChannel) Name() string { return models.ChannelEmail }

func (c *EmailChannel) Deliver(ctx context.Context, u *models.User, n *models.Notification, s models.NotificationSettings) error {
	if !s.EmailEnabled || u.Email == "" {
		return ErrSkipped
	}
	return c.Send(ctx, u.Email, n.Title, n.Message)
}

// Send mails one message through the breaker, bounded by channelTimeout.
func (c *EmailChannel) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, channelTimeout)
	defer cancel()
	_, err := c.breaker.Execute(func() (string, error) {
		return "", c.mailer.Send(ctx, to, subject, body)
	})
	return err
}
