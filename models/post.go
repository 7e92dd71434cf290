package models

import (
	"database/sql/driver"
	"time"
)

// StringList is a JSON-encoded list column, used for post tags.
type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StringList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Post represents a blog article. The slug is derived from the title once at
// creation and never recomputed; PublishedAt is set exactly once, at the
// first transition to IsPublished=true.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Excerpt       string     `gorm:"size:512;not null" json:"excerpt"`
	AuthorID      uint       `gorm:"index;not null" json:"author_id"`
	CategoryID    uint       `gorm:"index;not null" json:"category_id"`
	Tags          StringList `gorm:"type:text" json:"tags"`
	Slug          string     `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	FeaturedImage string     `gorm:"size:512" json:"featured_image"`
	IsPublished   bool       `gorm:"index;not null;default:false" json:"is_published"`
	Likes         int64      `gorm:"not null;default:0" json:"likes"`
	CommentsCount int64      `gorm:"not null;default:0" json:"comments_count"`
	PublishedAt   *time.Time `gorm:"index" json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Author        User       `gorm:"foreignKey:AuthorID" json:"author"`
	Category      Category   `gorm:"foreignKey:CategoryID" json:"category"`
}
