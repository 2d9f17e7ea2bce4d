package models

import (
	"time"

	"gorm.io/gorm"
)

type FinanceRecord struct {
	ID         uint      `gorm:"primaryKey"`
	FarmID     uint      `gorm:"not null;index"`
	Kind       string    `gorm:"type:varchar(10);not null"`
	Amount     float64   `gorm:"not null"`
	Note       string    `gorm:"type:text"`
	RecordDate time.Time `gorm:"not null;index"`
	CreatedBy  uint      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

const (
	FinanceExpense = "expense"
	FinanceIncome  = "income"
)

// BeforeSave hook for validation
func (r *FinanceRecord) BeforeSave(tx *gorm.DB) error {
	if r.Kind != FinanceExpense && r.Kind != FinanceIncome {
		return gorm.ErrInvalidData
	}
	if r.Amount <= 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (FinanceRecord) TableName() string {
	return "finance_records"
}
