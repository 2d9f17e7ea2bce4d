package repositories

import (
	"time"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type MilkRepository struct {
	db *gorm.DB
}

func NewMilkRepository(db *gorm.DB) *MilkRepository {
	return &MilkRepository{db: db}
}

// CreateRecord creates a new milk record
func (r *MilkRepository) CreateRecord(record *models.MilkRecord) error {
	result := r.db.Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create milk record")
	}
	return nil
}

// TotalForDate sums a farm's milk production for one calendar day
func (r *MilkRepository) TotalForDate(farmID uint, date time.Time) (float64, error) {
	var total float64
	day := date.Truncate(24 * time.Hour)
	result := r.db.Model(&models.MilkRecord{}).
		Where("farm_id = ? AND record_date >= ? AND record_date < ?", farmID, day, day.Add(24*time.Hour)).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to sum milk records")
	}

	return total, nil
}

// ListForAnimal returns the most recent milk records for one animal
func (r *MilkRepository) ListForAnimal(farmID, animalID uint, limit int) ([]models.MilkRecord, error) {
	var records []models.MilkRecord
	result := r.db.Where("farm_id = ? AND animal_id = ?", farmID, animalID).
		Order("record_date DESC").
		Limit(limit).
		Find(&records)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list milk records")
	}

	return records, nil
}

// ListForRange returns all milk records of a farm within [from, to)
func (r *MilkRepository) ListForRange(farmID uint, from, to time.Time) ([]models.MilkRecord, error) {
	var records []models.MilkRecord
	result := r.db.Where("farm_id = ? AND record_date >= ? AND record_date < ?", farmID, from, to).
		Order("record_date").
		Find(&records)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list milk records")
	}

	return records, nil
}
