package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/models"
)

const channelTimeout = 10 * time.Second

type NotificationService struct {
	store    NotificationStore
	users    UserStore
	settings SettingsStore
	carts    *CartService
	channels []Channel
	audit    *AuditLogger
}

func NewNotificationService(store NotificationStore, users UserStore, settings SettingsStore, carts *CartService, audit *AuditLogger, channels ...Channel) *NotificationService {
	return &NotificationService{store: store, users: users, settings: settings, carts: carts, channels: channels, audit: audit}
}

// SendCartReminder stores a cart_reminder and fans it out to every channel
// that applies. Channel failures are logged; the stored record lists the
// channels that delivered. Nothing is retried.
func (s *NotificationService) SendCartReminder(ctx context.Context, req models.SendNotificationRequest, actor Actor) (*models.Notification, error) {
	userID, err := ParseID(req.UserID, "user")
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, storeErr(err, "settings")
	}
	ns := settings.Notifications
	if !ns.CartReminderEnabled {
		return nil, fail(ErrConflict, "cart reminders are disabled")
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = ns.DefaultTitle
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = ns.DefaultMessage
	}
	if title == "" || message == "" {
		return nil, invalid("title and message are required")
	}

	cart := s.cartSummary(ctx, user)
	n := &models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTypeCartReminder,
		Title:   title,
		Message: message,
		Data: map[string]interface{}{
			"cartItemCount": cart.CartItemCount,
			"cartValue":     cart.CartValue,
			"url":           "/cart",
		},
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, storeErr(err, "notification")
	}

	delivered := s.fanOut(ctx, user, n, ns)
	if err := s.store.MarkDelivered(ctx, n.ID, delivered); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("notificationId", n.ID.Hex()).Msg("failed to record delivery")
	} else {
		n.Channels = delivered
		n.Delivered = len(delivered) > 0
	}

	s.audit.Info(ctx, models.LogNotification, actor, "cart reminder sent", map[string]interface{}{
		"targetUserId":   user.ID.Hex(),
		"notificationId": n.ID.Hex(),
		"channels":       strings.Join(delivered, ","),
	})
	return n, nil
}

// cartSummary counts the cart the way the tracking list does. A failed
// listing lookup leaves the counts at zero rather than blocking the reminder.
func (s *NotificationService) cartSummary(ctx context.Context, u *models.User) models.UserCartSummary {
	var listings map[primitive.ObjectID]models.Account
	if s.carts != nil && len(u.Cart) > 0 {
		var err error
		if listings, err = s.carts.listingsFor(ctx, u.Cart); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("userId", u.ID.Hex()).Msg("cart reminder: listing lookup failed")
		}
	}
	return summarize(*u, listings)
}

func (s *NotificationService) fanOut(ctx context.Context, u *models.User, n *models.Notification, ns models.NotificationSettings) []string {
	delivered := []string{}
	for _, ch := range s.channels {
		cctx, cancel := context.WithTimeout(ctx, channelTimeout)
		err := ch.Deliver(cctx, u, n, ns)
		cancel()
		switch {
		case err == nil:
			delivered = append(delivered, ch.Name())
			metrics.NotificationDeliveries.WithLabelValues(ch.Name(), "delivered").Inc()
		case errors.Is(err, ErrSkipped):
			metrics.NotificationDeliveries.WithLabelValues(ch.Name(), "skipped").Inc()
		default:
			metrics.NotificationDeliveries.WithLabelValues(ch.Name(), "failed").Inc()
			logging.Ctx(ctx).Warn().Err(err).
				Str("channel", ch.Name()).
				Str("userId", u.ID.Hex()).
				Msg("notification channel failed")
		}
	}
	return delivered
}

func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	items, err := s.store.ListForUser(ctx, userID, 50)
	if err != nil {
		return nil, storeErr(err, "notifications")
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	n, err := s.store.MarkRead(ctx, id, userID)
	return n, storeErr(err, "notification")
}

func (s *NotificationService) MarkClicked(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	n, err := s.store.MarkClicked(ctx, id, userID)
	return n, storeErr(err, "notification")
}
