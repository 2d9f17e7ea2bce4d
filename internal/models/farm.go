package models

import (
	"time"

	"gorm.io/gorm"
)

type Farm struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	OwnerID   uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Farm) TableName() string {
	return "farms"
}

// Farm roles, strongest first.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleWorker  = "worker"
	RoleViewer  = "viewer"
)

// ValidRole reports whether role is one of the known farm roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleWorker, RoleViewer:
		return true
	}
	return false
}

type FarmMember struct {
	ID        uint      `gorm:"primaryKey"`
	FarmID    uint      `gorm:"not null;index:idx_farm_user,unique"`
	UserID    uint      `gorm:"not null;index:idx_farm_user,unique"`
	Role      string    `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeSave hook for role validation
func (m *FarmMember) BeforeSave(tx *gorm.DB) error {
	if !ValidRole(m.Role) {
		return gorm.ErrInvalidData
	}
	return nil
}

func (FarmMember) TableName() string {
	return "farm_members"
}
