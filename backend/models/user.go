package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // user, admin
	College      string
	Department   string
}

// PlatformAccount links a user to a handle on an external judging platform.
// One account per (user, platform); refresh fans out over these.
type PlatformAccount struct {
	gorm.Model
	UserID   uint   `gorm:"not null;uniqueIndex:idx_platform_account_user_platform"`
	Platform string `gorm:"not null;uniqueIndex:idx_platform_account_user_platform"`
	Handle   string `gorm:"not null"`
}
