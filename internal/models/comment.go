package models

import (
	"time"
)

// Comment is an unauthenticated visitor reply to a post.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:100;not null"`
	Body      string `gorm:"type:text;not null"`
	PostID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
}
