package models

import "gorm.io/gorm"

// User represents a caller identity. Anonymous users have no credentials;
// registered users sign in with nickname or email and a password.
type User struct {
	gorm.Model
	Nickname     *string `gorm:"size:255;uniqueIndex"`
	Email        *string `gorm:"size:255;uniqueIndex"`
	PasswordHash *string `gorm:"size:255"`
	IsAnonymous  bool    `gorm:"not null;default:false;index"`

	// AdminCode is the last code the user verified. It grants admin rights
	// only while it is present in the configured code table.
	AdminCode *string `gorm:"size:255"`
}
