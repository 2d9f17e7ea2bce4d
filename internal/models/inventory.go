package models

import (
	"time"

	"gorm.io/gorm"
)

type InventoryItem struct {
	ID          uint      `gorm:"primaryKey"`
	FarmID      uint      `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Category    *string   `gorm:"type:varchar(100);default:NULL"`
	Quantity    float64   `gorm:"not null"`
	Unit        string    `gorm:"type:varchar(30);not null;default:'unit'"`
	CostPerUnit *float64  `gorm:"default:NULL"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// DefaultUnit is stored when the add flow skips the unit step.
const DefaultUnit = "unit"

// BeforeSave hook for validation
func (i *InventoryItem) BeforeSave(tx *gorm.DB) error {
	if i.Name == "" {
		return gorm.ErrInvalidData
	}
	if i.Quantity < 0 {
		return gorm.ErrInvalidData
	}
	if i.Unit == "" {
		i.Unit = DefaultUnit
	}
	return nil
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
