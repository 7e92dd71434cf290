package models

import (
	"database/sql/driver"
	"time"
)

// Reply is an inline answer embedded in its parent comment, stored as part
// of a JSON text column.
type Reply struct {
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ReplyList is the JSON column holding a comment's replies.
type ReplyList []Reply

func (l ReplyList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *ReplyList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Comment is a visitor comment on a post. Comments are auto-approved on
// creation; IsApproved=false marks a comment flagged for moderation.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"index;not null" json:"post_id"`
	Author     string    `gorm:"size:128;not null" json:"author"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsApproved bool      `gorm:"not null" json:"is_approved"`
	Replies    ReplyList `gorm:"type:text" json:"replies"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
