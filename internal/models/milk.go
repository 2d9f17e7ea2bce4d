package models

import (
	"time"

	"gorm.io/gorm"
)

type MilkRecord struct {
	ID         uint      `gorm:"primaryKey"`
	FarmID     uint      `gorm:"not null;index"`
	AnimalID   uint      `gorm:"not null;index"`
	RecordDate time.Time `gorm:"not null;index"`
	Quantity   float64   `gorm:"not null"`
	RecordedBy uint      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// BeforeSave hook rejects non-positive quantities
func (m *MilkRecord) BeforeSave(tx *gorm.DB) error {
	if m.Quantity <= 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (MilkRecord) TableName() string {
	return "milk_records"
}
