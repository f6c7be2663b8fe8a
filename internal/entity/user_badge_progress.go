package entity

import (
	"database/sql"
	"time"
)

// UserBadgeProgress is the durable progress row of one badge for one user.
// A row is unlocked iff UnlockedAt is valid.
type UserBadgeProgress struct {
	UserID          string `gorm:"primaryKey"`
	BadgeID         string `gorm:"primaryKey"`
	CurrentProgress int
	TargetProgress  int
	UnlockedAt      sql.NullTime `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
