package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityRecord is the per-user, per-day ledger row. TotalCount always equals
// the sum of that day's ActivitySourceCount rows; both are written in the same
// transaction.
type ActivityRecord struct {
	gorm.Model
	UserID     uint   `gorm:"not null;uniqueIndex:idx_activity_record_user_day"`
	DayKey     string `gorm:"type:varchar(10);not null;uniqueIndex:idx_activity_record_user_day"`
	TotalCount int    `gorm:"not null;default:0"`
}

// ActivitySourceCount holds one source's counter for one day.
// Source is "app" or an external platform name.
type ActivitySourceCount struct {
	gorm.Model
	UserID uint   `gorm:"not null;uniqueIndex:idx_activity_source_user_day_source"`
	DayKey string `gorm:"type:varchar(10);not null;uniqueIndex:idx_activity_source_user_day_source"`
	Source string `gorm:"not null;uniqueIndex:idx_activity_source_user_day_source"`
	Count  int    `gorm:"not null;default:0"`
}

// StreakState caches the derived streak numbers for one user. It can be
// rebuilt at any time from the ledger's day keys.
type StreakState struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex;not null"`
	CurrentStreak   int    `gorm:"not null;default:0"`
	LongestStreak   int    `gorm:"not null;default:0"`
	LastActivityDay string `gorm:"type:varchar(10)"`
}

// PlatformStats holds the aggregate numbers a platform reports about a user,
// written wholesale on every successful reconciliation.
type PlatformStats struct {
	gorm.Model
	UserID          uint   `gorm:"not null;uniqueIndex:idx_platform_stats_user_platform"`
	Platform        string `gorm:"not null;uniqueIndex:idx_platform_stats_user_platform"`
	SolvedProblems  int    `gorm:"not null;default:0"`
	Rating          int
	Rank            string
	LastRefreshedAt time.Time
}
