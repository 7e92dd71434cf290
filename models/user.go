package models

import (
	"database/sql/driver"
	"time"
)

// Roles recognized by the capability table. Passwords are stored as bcrypt
// hashes only.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether s is one of the recognized roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleEditor || s == RoleViewer
}

// SocialLinks holds optional profile links, stored as a JSON text column.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func (s SocialLinks) Value() (driver.Value, error) { return jsonValue(s) }
func (s *SocialLinks) Scan(src interface{}) error  { return jsonScan(s, src) }

// User represents an account on the platform.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string      `gorm:"size:128;not null" json:"name"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Bio          string      `gorm:"size:512" json:"bio"`
	Title        string      `gorm:"size:64" json:"title"`
	Role         string      `gorm:"size:16;index;not null" json:"role"`
	Avatar       string      `gorm:"size:512" json:"avatar"`
	Social       SocialLinks `gorm:"type:text" json:"social"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	LastLogin    *time.Time  `json:"last_login"`
}
