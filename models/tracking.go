package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sort keys for the cart-tracking user list.
const (
	TrackingSortLastActivity  = "lastActivity"
	TrackingSortCartValue     = "cartValue"
	TrackingSortCartItemCount = "cartItemCount"
	TrackingSortName          = "name"
)

type TrackingFilter struct {
	// HasCart nil keeps every user.
	HasCart *bool  `json:"hasCart,omitempty"`
	SortBy  string `json:"sortBy,omitempty"`
	Order   string `json:"order,omitempty"`
}

// Normalize fills defaults and drops unknown sort keys.
func (f TrackingFilter) Normalize() TrackingFilter {
	switch f.SortBy {
	case TrackingSortLastActivity, TrackingSortCartValue, TrackingSortCartItemCount, TrackingSortName:
	default:
		f.SortBy = TrackingSortLastActivity
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}
	return f
}

// UserCartSummary is a user enriched with cart aggregates.
type UserCartSummary struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Status        UserStatus         `json:"status"`
	IsOnline      bool               `json:"isOnline"`
	CartItemCount int                `json:"cartItemCount"`
	CartValue     float64            `json:"cartValue"`
	LastActivity  time.Time          `json:"lastActivity"`
}

type TrackingStats struct {
	TotalUsers       int                `json:"totalUsers"`
	UsersWithCart    int                `json:"usersWithCart"`
	TotalCartItems   int                `json:"totalCartItems"`
	TotalCartValue   float64            `json:"totalCartValue"`
	AverageCartValue float64            `json:"averageCartValue"`
	Notifications    NotificationCounts `json:"notifications"`
	DeliveryRate     float64            `json:"deliveryRate"`
	OpenRate         float64            `json:"openRate"`
	ClickRate        float64            `json:"clickRate"`
}

// TrackingSnapshot is pushed over the live cart-tracking socket.
type TrackingSnapshot struct {
	Seq          uint64            `json:"seq"`
	Users        []UserCartSummary `json:"users"`
	SelectedCart *CartView         `json:"selectedCart,omitempty"`
	Error        string            `json:"error,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// DashboardStats feeds the admin landing page.
type DashboardStats struct {
	AccountsByStatus map[AccountStatus]int64 `json:"accountsByStatus"`
	OrdersByStatus   map[OrderStatus]int64   `json:"ordersByStatus"`
	TotalUsers       int64                   `json:"totalUsers"`
	Revenue          float64                 `json:"revenue"`
	OpenTickets      int64                   `json:"openTickets"`
}
