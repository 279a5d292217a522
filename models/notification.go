package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotificationTypeCartReminder = "cart_reminder"

// Notification channels.
const (
	ChannelWebSocket = "websocket"
	ChannelPush      = "push"
	ChannelEmail     = "email"
)

type Notification struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID     `json:"userId" bson:"userId"`
	Type      string                 `json:"type" bson:"type"`
	Title     string                 `json:"title" bson:"title"`
	Message   string                 `json:"message" bson:"message"`
	Data      map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	Channels  []string               `json:"channels" bson:"channels"`
	Delivered bool                   `json:"delivered" bson:"delivered"`
	IsRead    bool                   `json:"isRead" bson:"isRead"`
	ReadAt    *time.Time             `json:"readAt,omitempty" bson:"readAt,omitempty"`
	ClickedAt *time.Time             `json:"clickedAt,omitempty" bson:"clickedAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}

type SendNotificationRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Title   string `json:"title" validate:"max=120"`
	Message string `json:"message" validate:"max=1000"`
}

// NotificationCounts aggregates the notifications collection for one type.
type NotificationCounts struct {
	Sent      int64 `json:"sent"`
	Delivered int64 `json:"delivered"`
	Opened    int64 `json:"opened"`
	Clicked   int64 `json:"clicked"`
}
