package models

import "time"

const SettingsKey = "site"

type Settings struct {
	Key              string               `json:"-" bson:"_id"`
	SiteName         string               `json:"siteName" bson:"siteName"`
	SupportEmail     string               `json:"supportEmail" bson:"supportEmail"`
	Currency         string               `json:"currency" bson:"currency"`
	MaintenanceMode  bool                 `json:"maintenanceMode" bson:"maintenanceMode"`
	LogRetentionDays int                  `json:"logRetentionDays" bson:"logRetentionDays"`
	Notifications    NotificationSettings `json:"notifications" bson:"notifications"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type NotificationSettings struct {
	CartReminderEnabled bool   `json:"cartReminderEnabled" bson:"cartReminderEnabled"`
	DefaultTitle        string `json:"defaultTitle" bson:"defaultTitle"`
	DefaultMessage      string `json:"defaultMessage" bson:"defaultMessage"`
	EmailEnabled        bool   `json:"emailEnabled" bson:"emailEnabled"`
	PushEnabled         bool   `json:"pushEnabled" bson:"pushEnabled"`
}

// DefaultSettings is returned until an admin saves settings for the first time.
func DefaultSettings() Settings {
	return Settings{
		Key:              SettingsKey,
		SiteName:         "Storefront",
		Currency:         "TRY",
		LogRetentionDays: 30,
		Notifications: NotificationSettings{
			CartReminderEnabled: true,
			DefaultTitle:        "Items waiting in your cart",
			DefaultMessage:      "You left some items in your cart. Complete your purchase before they sell out!",
			PushEnabled:         true,
		},
	}
}

// PublicSettings is the subset exposed to the storefront.
type PublicSettings struct {
	SiteName        string `json:"siteName"`
	SupportEmail    string `json:"supportEmail"`
	Currency        string `json:"currency"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

type SettingsUpdate struct {
	SiteName         *string               `json:"siteName,omitempty"`
	SupportEmail     *string               `json:"supportEmail,omitempty" validate:"omitempty,email"`
	Currency         *string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	MaintenanceMode  *bool                 `json:"maintenanceMode,omitempty"`
	LogRetentionDays *int                  `json:"logRetentionDays,omitempty" validate:"omitempty,gte=0,lte=3650"`
	Notifications    *NotificationSettings `json:"notifications,omitempty"`
}
