package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountStatus string

const (
	AccountAvailable AccountStatus = "available"
	AccountSold      AccountStatus = "sold"
	AccountPending   AccountStatus = "pending"
	AccountSuspended AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountAvailable, AccountSold, AccountPending, AccountSuspended:
		return true
	}
	return false
}

// Account is a sellable listing: a game/service account or a license.
type Account struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Price              float64            `json:"price" bson:"price"`
	OriginalPrice      float64            `json:"originalPrice" bson:"originalPrice"`
	DiscountPercentage float64            `json:"discountPercentage" bson:"discountPercentage"`
	IsOnSale           bool               `json:"isOnSale" bson:"isOnSale"`
	IsFeatured         bool               `json:"isFeatured" bson:"isFeatured"`
	IsWeeklyDeal       bool               `json:"isWeeklyDeal" bson:"isWeeklyDeal"`
	Status             AccountStatus      `json:"status" bson:"status"`
	Stock              int                `json:"stock" bson:"stock"`
	Category           string             `json:"category" bson:"category"`
	Subcategory        string             `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Game               string             `json:"game,omitempty" bson:"game,omitempty"`
	Rank               string             `json:"rank,omitempty" bson:"rank,omitempty"`
	Level              int                `json:"level,omitempty" bson:"level,omitempty"`
	Images             []string           `json:"images" bson:"images"`
	Rating             float64            `json:"rating" bson:"rating"`
	Features           []string           `json:"features,omitempty" bson:"features,omitempty"`
	DeliveryInfo       string             `json:"deliveryInfo,omitempty" bson:"deliveryInfo,omitempty"`
	SalesCount         int                `json:"salesCount" bson:"salesCount"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateAccountRequest is the admin create payload.
type CreateAccountRequest struct {
	Title              string        `json:"title" validate:"required,max=200"`
	Description        string        `json:"description"`
	Price              float64       `json:"price" validate:"gte=0"`
	OriginalPrice      float64       `json:"originalPrice" validate:"gte=0"`
	DiscountPercentage float64       `json:"discountPercentage" validate:"gte=0,lte=100"`
	IsOnSale           bool          `json:"isOnSale"`
	IsFeatured         bool          `json:"isFeatured"`
	IsWeeklyDeal       bool          `json:"isWeeklyDeal"`
	Status             AccountStatus `json:"status"`
	Stock              *int          `json:"stock" validate:"omitempty,gte=0"`
	Category           string        `json:"category" validate:"required"`
	Subcategory        string        `json:"subcategory"`
	Game               string        `json:"game"`
	Rank               string        `json:"rank"`
	Level              int           `json:"level" validate:"gte=0"`
	Images             []string      `json:"images" validate:"dive,url"`
	Rating             float64       `json:"rating" validate:"gte=0,lte=5"`
	Features           []string      `json:"features"`
	DeliveryInfo       string        `json:"deliveryInfo"`
}

// AccountUpdate is a partial update: nil fields are left untouched.
type AccountUpdate struct {
	Title              *string        `json:"title,omitempty" bson:"title,omitempty"`
	Description        *string        `json:"description,omitempty" bson:"description,omitempty"`
	Price              *float64       `json:"price,omitempty" bson:"price,omitempty"`
	OriginalPrice      *float64       `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	DiscountPercentage *float64       `json:"discountPercentage,omitempty" bson:"discountPercentage,omitempty"`
	IsOnSale           *bool          `json:"isOnSale,omitempty" bson:"isOnSale,omitempty"`
	IsFeatured         *bool          `json:"isFeatured,omitempty" bson:"isFeatured,omitempty"`
	IsWeeklyDeal       *bool          `json:"isWeeklyDeal,omitempty" bson:"isWeeklyDeal,omitempty"`
	Status             *AccountStatus `json:"status,omitempty" bson:"status,omitempty"`
	Stock              *int           `json:"stock,omitempty" bson:"stock,omitempty"`
	Category           *string        `json:"category,omitempty" bson:"category,omitempty"`
	Subcategory        *string        `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Game               *string        `json:"game,omitempty" bson:"game,omitempty"`
	Rank               *string        `json:"rank,omitempty" bson:"rank,omitempty"`
	Level              *int           `json:"level,omitempty" bson:"level,omitempty"`
	Images             *[]string      `json:"images,omitempty" bson:"images,omitempty"`
	Rating             *float64       `json:"rating,omitempty" bson:"rating,omitempty"`
	Features           *[]string      `json:"features,omitempty" bson:"features,omitempty"`
	DeliveryInfo       *string        `json:"deliveryInfo,omitempty" bson:"deliveryInfo,omitempty"`
}

// TouchesPricing reports whether the update changes any input of the sale price.
func (u AccountUpdate) TouchesPricing() bool {
	return u.Price != nil || u.OriginalPrice != nil || u.DiscountPercentage != nil || u.IsOnSale != nil
}
