package models

import "strings"

// Author writes posts (Post.AuthorID). Authors are only created by fixtures.
type Author struct {
	ID        uint   `gorm:"primaryKey"`
	Firstname string `gorm:"size:100;not null"`
	Lastname  string `gorm:"size:100;not null;index"`
}

// FullName joins first and last name.
func (a *Author) FullName() string {
	return strings.TrimSpace(a.Firstname + " " + a.Lastname)
}
