package models

import (
	"time"

	"gorm.io/gorm"
)

type InviteCode struct {
	ID        uint       `gorm:"primaryKey"`
	FarmID    uint       `gorm:"not null;index"`
	Code      string     `gorm:"uniqueIndex;type:varchar(16);not null"`
	Role      string     `gorm:"type:varchar(20);not null"`
	CreatedBy uint       `gorm:"not null"`
	UsedBy    *uint      `gorm:"default:NULL"`
	UsedAt    *time.Time `gorm:"default:NULL"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

// Usable reports whether the code can still be redeemed.
func (c *InviteCode) Usable(now time.Time) bool {
	return c.UsedBy == nil && now.Before(c.ExpiresAt)
}

// BeforeSave hook: invitation codes never grant ownership.
func (c *InviteCode) BeforeSave(tx *gorm.DB) error {
	if c.Role == RoleOwner || !ValidRole(c.Role) {
		return gorm.ErrInvalidData
	}
	return nil
}

func (InviteCode) TableName() string {
	return "invite_codes"
}
