package models

import "time"

// Category groups posts. Its slug is derived from the name at creation.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"size:512;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
