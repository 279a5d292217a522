package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one server-side cart line stored on the user document.
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	AddedAt   time.Time          `json:"addedAt" bson:"addedAt"`
}

type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=100"`
}

// CartLine is a cart item joined with its listing.
type CartLine struct {
	ProductID primitive.ObjectID `json:"productId"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	Quantity  int                `json:"quantity"`
	LineTotal float64            `json:"lineTotal"`
	Category  string             `json:"category"`
	Game      string             `json:"game,omitempty"`
	Rank      string             `json:"rank,omitempty"`
	Level     int                `json:"level,omitempty"`
	Image     string             `json:"image,omitempty"`
	Status    AccountStatus      `json:"status"`
	AddedAt   time.Time          `json:"addedAt"`
}

// CartStats summarizes a cart.
type CartStats struct {
	TotalItems int        `json:"totalItems"`
	TotalValue float64    `json:"totalValue"`
	Categories []string   `json:"categories"`
	Games      []string   `json:"games"`
	OldestItem *time.Time `json:"oldestItem,omitempty"`
}

type CartView struct {
	UserID primitive.ObjectID `json:"userId"`
	Items  []CartLine         `json:"items"`
	Stats  CartStats          `json:"stats"`
}
