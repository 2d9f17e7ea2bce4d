package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type BreedingRepository struct {
	db *gorm.DB
}

func NewBreedingRepository(db *gorm.DB) *BreedingRepository {
	return &BreedingRepository{db: db}
}

// CreateEvent creates a new breeding event
func (r *BreedingRepository) CreateEvent(event *models.BreedingEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create breeding event")
	}
	return nil
}

// ListRecent returns the latest breeding events of a farm
func (r *BreedingRepository) ListRecent(farmID uint, limit int) ([]models.BreedingEvent, error) {
	var events []models.BreedingEvent
	result := r.db.Where("farm_id = ?", farmID).
		Order("event_date DESC, id DESC").
		Limit(limit).
		Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list breeding events")
	}

	return events, nil
}

// ListForAnimal returns all breeding events recorded for one animal
func (r *BreedingRepository) ListForAnimal(farmID, animalID uint) ([]models.BreedingEvent, error) {
	var events []models.BreedingEvent
	result := r.db.Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		Order("event_date DESC").
		Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list breeding events")
	}

	return events, nil
}
