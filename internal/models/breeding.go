package models

import (
	"time"

	"gorm.io/gorm"
)

type BreedingEvent struct {
	ID        uint      `gorm:"primaryKey"`
	FarmID    uint      `gorm:"not null;index"`
	AnimalID  uint      `gorm:"not null;index"`
	SireID    *uint     `gorm:"default:NULL"`
	EventType string    `gorm:"type:varchar(30);not null"`
	EventDate time.Time `gorm:"not null"`
	Notes     string    `gorm:"type:text"`
	CreatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Breeding event types.
const (
	EventInsemination   = "insemination"
	EventNaturalMating  = "natural_mating"
	EventPregnancyCheck = "pregnancy_check"
)

// ValidEventType reports whether t is a known breeding event type.
func ValidEventType(t string) bool {
	switch t {
	case EventInsemination, EventNaturalMating, EventPregnancyCheck:
		return true
	}
	return false
}

// BeforeSave hook for validation
func (e *BreedingEvent) BeforeSave(tx *gorm.DB) error {
	if !ValidEventType(e.EventType) {
		return gorm.ErrInvalidData
	}
	if e.EventDate.IsZero() {
		return gorm.ErrInvalidData
	}
	return nil
}

func (BreedingEvent) TableName() string {
	return "breeding_events"
}
