package models

import "time"

// Subscriber signup sources.
const (
	SourceHomepage = "homepage"
	SourcePost     = "post"
	SourceFooter   = "footer"
	SourcePopup    = "popup"
)

// ValidSource reports whether s is a recognized signup source.
func ValidSource(s string) bool {
	return s == SourceHomepage || s == SourcePost || s == SourceFooter || s == SourcePopup
}

// Subscriber is a newsletter recipient. Emails are stored lowercase and
// unique; unsubscribing flips IsActive rather than deleting the row.
type Subscriber struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Email                string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name                 string    `gorm:"size:128" json:"name"`
	IsActive             bool      `gorm:"index;not null" json:"is_active"`
	ReceiveNewPostAlerts bool      `gorm:"not null" json:"receive_new_post_alerts"`
	Source               string    `gorm:"size:16" json:"source"`
	SubscribedAt         time.Time `json:"subscribed_at"`
}
