package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind names a site-content collection managed from the back office.
type ContentKind string

const (
	ContentSliders           ContentKind = "sliders"
	ContentTestimonials      ContentKind = "testimonials"
	ContentAnnouncements     ContentKind = "announcements"
	ContentPopularCategories ContentKind = "popular-categories"
)

// Collection is the MongoDB collection backing the kind.
func (k ContentKind) Collection() string {
	switch k {
	case ContentPopularCategories:
		return "popular_categories"
	default:
		return string(k)
	}
}

func (k ContentKind) Valid() bool {
	switch k {
	case ContentSliders, ContentTestimonials, ContentAnnouncements, ContentPopularCategories:
		return true
	}
	return false
}

// ContentItem is the shared shape of sliders, testimonials, announcements and
// popular categories. Kind-specific fields are optional.
type ContentItem struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title,omitempty" bson:"title,omitempty"`
	Subtitle   string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	Message    string             `json:"message,omitempty" bson:"message,omitempty"`
	Content    string             `json:"content,omitempty" bson:"content,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	Avatar     string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Link       string             `json:"link,omitempty" bson:"link,omitempty"`
	Type       string             `json:"type,omitempty" bson:"type,omitempty"`
	CategoryID string             `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Rating     float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	Order      int                `json:"order" bson:"order"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	StartsAt   *time.Time         `json:"startsAt,omitempty" bson:"startsAt,omitempty"`
	EndsAt     *time.Time         `json:"endsAt,omitempty" bson:"endsAt,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ContentUpdate struct {
	Title      *string    `json:"title,omitempty" bson:"title,omitempty"`
	Subtitle   *string    `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Name       *string    `json:"name,omitempty" bson:"name,omitempty"`
	Message    *string    `json:"message,omitempty" bson:"message,omitempty"`
	Content    *string    `json:"content,omitempty" bson:"content,omitempty"`
	Image      *string    `json:"image,omitempty" bson:"image,omitempty"`
	Avatar     *string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Link       *string    `json:"link,omitempty" bson:"link,omitempty"`
	Type       *string    `json:"type,omitempty" bson:"type,omitempty"`
	CategoryID *string    `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Rating     *float64   `json:"rating,omitempty" bson:"rating,omitempty"`
	Order      *int       `json:"order,omitempty" bson:"order,omitempty"`
	IsActive   *bool      `json:"isActive,omitempty" bson:"isActive,omitempty"`
	StartsAt   *time.Time `json:"startsAt,omitempty" bson:"startsAt,omitempty"`
	EndsAt     *time.Time `json:"endsAt,omitempty" bson:"endsAt,omitempty"`
}
