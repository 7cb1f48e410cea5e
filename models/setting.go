package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is the singleton site configuration document. Exactly one row is
// expected to exist; it is fetched-or-created lazily.
type Setting struct {
	ID                   uuid.UUID `json:"id"`
	SiteTitle            string    `json:"site_title"`
	AdminEmail           string    `json:"admin_email"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	Language             string    `json:"language"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultSetting returns the values used when the settings row is created lazily.
func DefaultSetting() *Setting {
	return &Setting{
		SiteTitle:            "OptiNet Internet",
		NotificationsEnabled: true,
		Language:             "en",
	}
}
