package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	TelegramID   int64     `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Username     string    `gorm:"type:varchar(255)"`
	LanguageCode string    `gorm:"type:varchar(10)"`
	Premium      bool      `gorm:"default:false;not null"`
	PremiumUntil time.Time `gorm:"default:NULL"`
	LastActivity time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// HasActivePremium reports whether the user's premium plan is still running.
func (u *User) HasActivePremium(now time.Time) bool {
	return u.Premium && u.PremiumUntil.After(now)
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
