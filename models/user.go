// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserBanned    UserStatus = "banned"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserSuspended || s == UserBanned
}

// User model. Password holds the bcrypt hash and is never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"`
	Name           string             `json:"name" bson:"name"`
	Role           Role               `json:"role" bson:"role"`
	Status         UserStatus         `json:"status" bson:"status"`
	Balance        float64            `json:"balance" bson:"balance"`
	IsVerified     bool               `json:"isVerified" bson:"isVerified"`
	FCMToken       string             `json:"-" bson:"fcmToken,omitempty"`
	IsOnline       bool               `json:"isOnline" bson:"isOnline"`
	LastActivityAt time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	Cart           []CartItem         `json:"cart,omitempty" bson:"cart"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// CreateUserRequest is used by admins to create accounts directly.
type CreateUserRequest struct {
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required,min=8"`
	Name       string     `json:"name" validate:"required,max=100"`
	Role       Role       `json:"role"`
	Status     UserStatus `json:"status"`
	Balance    float64    `json:"balance" validate:"gte=0"`
	IsVerified bool       `json:"isVerified"`
}

// UserUpdate is the admin partial update.
type UserUpdate struct {
	Name       *string     `json:"name,omitempty" bson:"name,omitempty"`
	Email      *string     `json:"email,omitempty" bson:"email,omitempty"`
	Role       *Role       `json:"role,omitempty" bson:"role,omitempty"`
	Status     *UserStatus `json:"status,omitempty" bson:"status,omitempty"`
	Balance    *float64    `json:"balance,omitempty" bson:"balance,omitempty"`
	IsVerified *bool       `json:"isVerified,omitempty" bson:"isVerified,omitempty"`
	Password   *string     `json:"password,omitempty" bson:"password,omitempty"`
}

// ProfileUpdate is what a customer may change about themselves.
type ProfileUpdate struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=100"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty" validate:"omitempty,min=8"`
}

type FCMTokenUpdateRequest struct {
	FCMToken string `json:"fcmToken" validate:"required"`
}
