package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	FullName            string     `gorm:"size:100;not null" json:"fullName"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	ProfileImageURL     string     `json:"profileImageUrl,omitempty"`
	ResetTokenHash      string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}
