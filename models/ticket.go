package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a support request with its response thread.
type Ticket struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TicketNumber string             `json:"ticketNumber" bson:"ticketNumber"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	Subject      string             `json:"subject" bson:"subject"`
	Category     string             `json:"category" bson:"category"`
	OrderID      string             `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Status       TicketStatus       `json:"status" bson:"status"`
	Priority     TicketPriority     `json:"priority" bson:"priority"`
	Messages     []TicketMessage    `json:"messages" bson:"messages"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type TicketMessage struct {
	AuthorID   primitive.ObjectID `json:"authorId" bson:"authorId"`
	AuthorRole Role               `json:"authorRole" bson:"authorRole"`
	Body       string             `json:"body" bson:"body"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateTicketRequest struct {
	Subject  string         `json:"subject" validate:"required,max=200"`
	Category string         `json:"category" validate:"max=50"`
	OrderID  string         `json:"orderId"`
	Priority TicketPriority `json:"priority"`
	Message  string         `json:"message" validate:"required,max=5000"`
}

type TicketMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

type TicketUpdate struct {
	Status   *TicketStatus   `json:"status,omitempty" bson:"status,omitempty"`
	Priority *TicketPriority `json:"priority,omitempty" bson:"priority,omitempty"`
	Category *string         `json:"category,omitempty" bson:"category,omitempty"`
}
