package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type AnimalRepository struct {
	db *gorm.DB
}

func NewAnimalRepository(db *gorm.DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

// CreateAnimal creates a new animal
func (r *AnimalRepository) CreateAnimal(animal *models.Animal) error {
	result := r.db.Create(animal)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create animal")
	}
	return nil
}

// GetAnimalByID retrieves an animal by ID, scoped to a farm
func (r *AnimalRepository) GetAnimalByID(farmID, animalID uint) (*models.Animal, error) {
	var animal models.Animal
	result := r.db.Where("id = ? AND farm_id = ?", animalID, farmID).First(&animal)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "animal not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get animal")
	}

	return &animal, nil
}

// ListAnimals returns one page of a farm's active animals plus the total count
func (r *AnimalRepository) ListAnimals(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	var animals []models.Animal
	var total int64

	base := r.db.Model(&models.Animal{}).Where("farm_id = ? AND active = ?", farmID, true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count animals")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&animals)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list animals")
	}

	return animals, total, nil
}

// ListMilkable returns one page of animals milk records can be attached to
func (r *AnimalRepository) ListMilkable(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	var animals []models.Animal
	var total int64

	base := r.db.Model(&models.Animal{}).
		Where("farm_id = ? AND active = ? AND gender = ?", farmID, true, models.GenderFemale)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count animals")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&animals)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list animals")
	}

	return animals, total, nil
}

// ListBreedingEligible returns one page of dams eligible for a breeding event:
// non-male animals in the estrus or postpartum phase.
func (r *AnimalRepository) ListBreedingEligible(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	var animals []models.Animal
	var total int64

	base := r.db.Model(&models.Animal{}).
		Where("farm_id = ? AND active = ? AND gender <> ? AND phase IN ?",
			farmID, true, models.GenderMale,
			[]string{models.PhaseEstrus, models.PhasePostpartum})
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count animals")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&animals)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list animals")
	}

	return animals, total, nil
}

// ListSires returns one page of a farm's active male animals
func (r *AnimalRepository) ListSires(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	var animals []models.Animal
	var total int64

	base := r.db.Model(&models.Animal{}).
		Where("farm_id = ? AND active = ? AND gender = ?", farmID, true, models.GenderMale)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count animals")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&animals)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list animals")
	}

	return animals, total, nil
}

// UpdateAnimal updates animal information
func (r *AnimalRepository) UpdateAnimal(animal *models.Animal) error {
	result := r.db.Save(animal)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update animal")
	}
	return nil
}

// UpdatePhase changes an animal's lifecycle phase
func (r *AnimalRepository) UpdatePhase(farmID, animalID uint, phase string) error {
	if !models.ValidPhase(phase) {
		return errors.New(errors.ErrCodeValidation, "unknown phase")
	}
	result := r.db.Model(&models.Animal{}).
		Where("id = ? AND farm_id = ?", animalID, farmID).
		Update("phase", phase)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update phase")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "animal not found")
	}
	return nil
}

// DeleteAnimal soft-retires an animal by marking it inactive
func (r *AnimalRepository) DeleteAnimal(farmID, animalID uint) error {
	result := r.db.Model(&models.Animal{}).
		Where("id = ? AND farm_id = ?", animalID, farmID).
		Update("active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete animal")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "animal not found")
	}
	return nil
}
