package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) Valid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

type LogCategory string

const (
	LogSystem       LogCategory = "system"
	LogAuth         LogCategory = "auth"
	LogPayment      LogCategory = "payment"
	LogOrder        LogCategory = "order"
	LogAdmin        LogCategory = "admin"
	LogNotification LogCategory = "notification"
)

func (c LogCategory) Valid() bool {
	switch c {
	case LogSystem, LogAuth, LogPayment, LogOrder, LogAdmin, LogNotification:
		return true
	}
	return false
}

// Log is an append-only audit record.
type Log struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Level     LogLevel               `json:"level" bson:"level"`
	Category  LogCategory            `json:"category" bson:"category"`
	Message   string                 `json:"message" bson:"message"`
	UserID    *primitive.ObjectID    `json:"userId,omitempty" bson:"userId,omitempty"`
	IP        string                 `json:"ip,omitempty" bson:"ip,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}
