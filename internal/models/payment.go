package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Reference string    `gorm:"uniqueIndex;type:varchar(40);not null"`
	Plan      string    `gorm:"type:varchar(20);not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'awaiting'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

const (
	PaymentAwaiting  = "awaiting"
	PaymentConfirmed = "confirmed"
	PaymentRejected  = "rejected"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// BeforeSave hook for validation
func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.Reference == "" {
		return gorm.ErrInvalidData
	}
	switch p.Status {
	case PaymentAwaiting, PaymentConfirmed, PaymentRejected:
	default:
		return gorm.ErrInvalidData
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}
