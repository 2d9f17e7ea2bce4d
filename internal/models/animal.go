package models

import (
	"time"

	"gorm.io/gorm"
)

type Animal struct {
	ID        uint      `gorm:"primaryKey"`
	FarmID    uint      `gorm:"not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	TagNumber string    `gorm:"type:varchar(50)"`
	Gender    string    `gorm:"type:varchar(10);not null"`
	Phase     string    `gorm:"type:varchar(20);not null"`
	BirthDate time.Time `gorm:"default:NULL"`
	Active    bool      `gorm:"default:true;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Animal lifecycle phases.
const (
	PhaseCalf       = "calf"
	PhaseGrowing    = "growing"
	PhaseLactating  = "lactating"
	PhaseDry        = "dry"
	PhaseEstrus     = "estrus"
	PhasePregnant   = "pregnant"
	PhasePostpartum = "postpartum"
)

var validPhases = map[string]bool{
	PhaseCalf:       true,
	PhaseGrowing:    true,
	PhaseLactating:  true,
	PhaseDry:        true,
	PhaseEstrus:     true,
	PhasePregnant:   true,
	PhasePostpartum: true,
}

// ValidPhase reports whether phase is a known lifecycle phase.
func ValidPhase(phase string) bool {
	return validPhases[phase]
}

// BreedingEligible reports whether the animal can be offered as a dam
// for a breeding event: females in estrus or postpartum only.
func (a *Animal) BreedingEligible() bool {
	if a.Gender == GenderMale {
		return false
	}
	return a.Phase == PhaseEstrus || a.Phase == PhasePostpartum
}

// MilkEligible reports whether a milk record can be attached to the animal.
func (a *Animal) MilkEligible() bool {
	return a.Gender == GenderFemale && a.Active
}

// BeforeSave hook for validation
func (a *Animal) BeforeSave(tx *gorm.DB) error {
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return gorm.ErrInvalidData
	}
	if !ValidPhase(a.Phase) {
		return gorm.ErrInvalidData
	}
	if a.Name == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Animal) TableName() string {
	return "animals"
}
