package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is one accepted first-party challenge submission. The submission
// service guarantees at-most-once delivery per (user, challenge), so rows here
// are already deduplicated.
type Submission struct {
	gorm.Model
	UserID      uint `gorm:"index;not null"`
	ChallengeID uint `gorm:"not null"`
	OccurredAt  time.Time
}
