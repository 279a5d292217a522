package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool { return s == BlogDraft || s == BlogPublished }

type BlogPost struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Slug        string             `json:"slug" bson:"slug"`
	Excerpt     string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Content     string             `json:"content" bson:"content"`
	CoverImage  string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Tags        []string           `json:"tags" bson:"tags"`
	Author      string             `json:"author" bson:"author"`
	Status      BlogStatus         `json:"status" bson:"status"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Views       int                `json:"views" bson:"views"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateBlogPostRequest struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt" validate:"max=500"`
	Content    string     `json:"content" validate:"required"`
	CoverImage string     `json:"coverImage" validate:"omitempty,url"`
	Tags       []string   `json:"tags"`
	Author     string     `json:"author"`
	Status     BlogStatus `json:"status"`
}

type BlogPostUpdate struct {
	Title      *string     `json:"title,omitempty" bson:"title,omitempty"`
	Slug       *string     `json:"slug,omitempty" bson:"slug,omitempty"`
	Excerpt    *string     `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Content    *string     `json:"content,omitempty" bson:"content,omitempty"`
	CoverImage *string     `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Tags       *[]string   `json:"tags,omitempty" bson:"tags,omitempty"`
	Author     *string     `json:"author,omitempty" bson:"author,omitempty"`
	Status     *BlogStatus `json:"status,omitempty" bson:"status,omitempty"`
}
