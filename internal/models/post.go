// Package models contains the blog's persisted entities.
package models

import (
	"time"
)

// Post is a published article. PublishedAt is fixed at creation; UpdatedAt stays
// nil until the first edit and is never stamped by GORM itself.
type Post struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:255;not null"`
	Body        string     `gorm:"type:text;not null"`
	Image       string     `gorm:"size:255"`
	NbLikes     int        `gorm:"not null;default:0"`
	PublishedAt time.Time  `gorm:"not null;index"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
	AuthorID    *uint      `gorm:"index"`
	Author      *Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Comments    []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// AuthorName returns the author's display name, or an empty string for anonymous posts.
func (p *Post) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.FullName()
}

// Touch stamps UpdatedAt with now, never moving it before PublishedAt or the previous update.
func (p *Post) Touch(now time.Time) {
	stamp := now
	if stamp.Before(p.PublishedAt) {
		stamp = p.PublishedAt
	}
	if p.UpdatedAt != nil && stamp.Before(*p.UpdatedAt) {
		stamp = *p.UpdatedAt
	}
	p.UpdatedAt = &stamp
}
