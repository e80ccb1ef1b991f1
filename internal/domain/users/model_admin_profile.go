package users

import "time"

// AdminProfile holds the payment provider keys an admin saved from the dashboard.
type AdminProfile struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_admin_profiles_user_id"`

	StripePublishableKey string
	StripeSecretKey      string
	StripeWebhookSecret  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
