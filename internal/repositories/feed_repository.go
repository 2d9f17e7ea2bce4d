package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// CreateFormula creates a formula together with its components
func (r *FeedRepository) CreateFormula(formula *models.FeedFormula) error {
	result := r.db.Create(formula)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create feed formula")
	}
	return nil
}

// GetFormulaByID retrieves a formula with its components, scoped to a farm
func (r *FeedRepository) GetFormulaByID(farmID, formulaID uint) (*models.FeedFormula, error) {
	var formula models.FeedFormula
	result := r.db.Preload("Components").
		Where("id = ? AND farm_id = ?", formulaID, farmID).
		First(&formula)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "formula not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get formula")
	}

	return &formula, nil
}

// ListFormulas returns one page of a farm's formulas plus the total count
func (r *FeedRepository) ListFormulas(farmID uint, offset, limit int) ([]models.FeedFormula, int64, error) {
	var formulas []models.FeedFormula
	var total int64

	base := r.db.Model(&models.FeedFormula{}).Where("farm_id = ?", farmID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count formulas")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&formulas)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list formulas")
	}

	return formulas, total, nil
}

// DeleteFormula removes a formula and its components
func (r *FeedRepository) DeleteFormula(farmID, formulaID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("formula_id = ?", formulaID).Delete(&models.FeedComponent{}).Error; err != nil {
			return err
		}
		result := tx.Where("farm_id = ?", farmID).Delete(&models.FeedFormula{}, formulaID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	if err == gorm.ErrRecordNotFound {
		return errors.New(errors.ErrCodeNotFound, "formula not found")
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete formula")
	}
	return nil
}
