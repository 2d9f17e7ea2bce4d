package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type FeedFormula struct {
	ID         uint            `gorm:"primaryKey"`
	FarmID     uint            `gorm:"not null;index"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Components []FeedComponent `gorm:"foreignKey:FormulaID;constraint:OnDelete:CASCADE"`
	CreatedBy  uint            `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

type FeedComponent struct {
	ID         uint    `gorm:"primaryKey"`
	FormulaID  uint    `gorm:"not null;index"`
	Name       string  `gorm:"type:varchar(255);not null"`
	Proportion float64 `gorm:"not null"`
}

// ProportionSum returns the total of all component proportions.
func (f *FeedFormula) ProportionSum() float64 {
	var sum float64
	for _, c := range f.Components {
		sum += c.Proportion
	}
	return sum
}

// ProportionsBalanced reports whether the component proportions sum to
// 100 within the given tolerance.
func (f *FeedFormula) ProportionsBalanced(tolerance float64) bool {
	return math.Abs(f.ProportionSum()-100) <= tolerance
}

// BeforeSave hook for validation
func (f *FeedFormula) BeforeSave(tx *gorm.DB) error {
	if f.Name == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (FeedFormula) TableName() string {
	return "feed_formulas"
}

func (FeedComponent) TableName() string {
	return "feed_components"
}
