package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryType string

const (
	CategoryTypeAccount CategoryType = "account"
	CategoryTypeLicense CategoryType = "license"
)

func (t CategoryType) Valid() bool {
	return t == CategoryTypeAccount || t == CategoryTypeLicense
}

type CategoryStatus string

const (
	CategoryActive   CategoryStatus = "active"
	CategoryInactive CategoryStatus = "inactive"
)

func (s CategoryStatus) Valid() bool {
	return s == CategoryActive || s == CategoryInactive
}

// Category groups listings. Subcategories live inside the category document.
type Category struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Slug          string             `json:"slug" bson:"slug"`
	Image         string             `json:"image" bson:"image"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Type          CategoryType       `json:"type" bson:"type"`
	Status        CategoryStatus     `json:"status" bson:"status"`
	Order         int                `json:"order" bson:"order"`
	Subcategories []Subcategory      `json:"subcategories" bson:"subcategories"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Subcategory struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Slug     string             `json:"slug" bson:"slug"`
	Order    int                `json:"order" bson:"order"`
	IsActive bool               `json:"isActive" bson:"isActive"`
}

type CreateCategoryRequest struct {
	Title         string                     `json:"title" validate:"required,max=100"`
	Slug          string                     `json:"slug"`
	Image         string                     `json:"image" validate:"omitempty,url"`
	Description   string                     `json:"description"`
	Type          CategoryType               `json:"type" validate:"required"`
	Status        CategoryStatus             `json:"status"`
	Order         int                        `json:"order"`
	Subcategories []CreateSubcategoryRequest `json:"subcategories" validate:"dive"`
}

type CreateSubcategoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Slug     string `json:"slug"`
	Order    int    `json:"order"`
	IsActive *bool  `json:"isActive"`
}

type CategoryUpdate struct {
	Title       *string         `json:"title,omitempty" bson:"title,omitempty"`
	Slug        *string         `json:"slug,omitempty" bson:"slug,omitempty"`
	Image       *string         `json:"image,omitempty" bson:"image,omitempty"`
	Description *string         `json:"description,omitempty" bson:"description,omitempty"`
	Type        *CategoryType   `json:"type,omitempty" bson:"type,omitempty"`
	Status      *CategoryStatus `json:"status,omitempty" bson:"status,omitempty"`
	Order       *int            `json:"order,omitempty" bson:"order,omitempty"`
}

type SubcategoryUpdate struct {
	Name     *string `json:"name,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	Order    *int    `json:"order,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}
