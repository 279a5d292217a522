package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to sane values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of documents before the page.
func (p Pagination) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

type AccountFilter struct {
	Status       AccountStatus
	Category     string
	Subcategory  string
	Game         string
	Search       string
	IsOnSale     *bool
	IsFeatured   *bool
	IsWeeklyDeal *bool
	MinPrice     *float64
	MaxPrice     *float64
	// Sort is one of newest, price_asc, price_desc, rating.
	Sort string
	Pagination
}

type CategoryFilter struct {
	Type   CategoryType
	Status CategoryStatus
	Search string
}

type UserFilter struct {
	Role   Role
	Status UserStatus
	Search string
	Pagination
}

type OrderFilter struct {
	UserID        primitive.ObjectID
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Search        string
	Pagination
}

type LogFilter struct {
	Level    LogLevel
	Category LogCategory
	Search   string
	Pagination
}

type BlogFilter struct {
	Status BlogStatus
	Tag    string
	Search string
	Pagination
}

type TicketFilter struct {
	UserID   primitive.ObjectID
	Status   TicketStatus
	Priority TicketPriority
	Search   string
	Pagination
}
