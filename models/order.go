package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// PaymentStatus is tracked independently from OrderStatus.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayWithBalance PaymentMethod = "balance"
	PayWithCard    PaymentMethod = "card"
	PayWithCrypto  PaymentMethod = "crypto"
	PayWithBank    PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayWithBalance, PayWithCard, PayWithCrypto, PayWithBank:
		return true
	}
	return false
}

type Order struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNumber   string             `json:"orderNumber" bson:"orderNumber"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	AccountID     primitive.ObjectID `json:"accountId" bson:"accountId"`
	AccountTitle  string             `json:"accountTitle" bson:"accountTitle"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	UnitPrice     float64            `json:"unitPrice" bson:"unitPrice"`
	Amount        float64            `json:"amount" bson:"amount"`
	Status        OrderStatus        `json:"status" bson:"status"`
	PaymentStatus PaymentStatus      `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	DeliveryInfo  string             `json:"deliveryInfo,omitempty" bson:"deliveryInfo,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CheckoutRequest struct {
	Items         []CartItemRequest `json:"items" validate:"dive"`
	PaymentMethod PaymentMethod     `json:"paymentMethod" validate:"required"`
}

type CheckoutResult struct {
	Orders      []Order `json:"orders"`
	TotalAmount float64 `json:"totalAmount"`
	Balance     float64 `json:"balance"`
}

type OrderUpdate struct {
	Status        *OrderStatus   `json:"status,omitempty" bson:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	DeliveryInfo  *string        `json:"deliveryInfo,omitempty" bson:"deliveryInfo,omitempty"`
	Notes         *string        `json:"notes,omitempty" bson:"notes,omitempty"`
}
