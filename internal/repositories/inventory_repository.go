package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// CreateItem creates a new inventory item
func (r *InventoryRepository) CreateItem(item *models.InventoryItem) error {
	result := r.db.Create(item)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create inventory item")
	}
	return nil
}

// GetItemByID retrieves an inventory item by ID, scoped to a farm
func (r *InventoryRepository) GetItemByID(farmID, itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	result := r.db.Where("id = ? AND farm_id = ?", itemID, farmID).First(&item)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "item not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get item")
	}

	return &item, nil
}

// ListItems returns one page of a farm's inventory plus the total count
func (r *InventoryRepository) ListItems(farmID uint, offset, limit int) ([]models.InventoryItem, int64, error) {
	var items []models.InventoryItem
	var total int64

	base := r.db.Model(&models.InventoryItem{}).Where("farm_id = ?", farmID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count items")
	}

	result := base.Order("name").Offset(offset).Limit(limit).Find(&items)
	if result.Error != nil {
		return nil, 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list items")
	}

	return items, total, nil
}

// UpdateQuantity sets an item's quantity
func (r *InventoryRepository) UpdateQuantity(farmID, itemID uint, quantity float64) error {
	if quantity < 0 {
		return errors.New(errors.ErrCodeValidation, "quantity must not be negative")
	}
	result := r.db.Model(&models.InventoryItem{}).
		Where("id = ? AND farm_id = ?", itemID, farmID).
		Update("quantity", quantity)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update quantity")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "item not found")
	}
	return nil
}

// DeleteItem removes an inventory item
func (r *InventoryRepository) DeleteItem(farmID, itemID uint) error {
	result := r.db.Where("farm_id = ?", farmID).Delete(&models.InventoryItem{}, itemID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete item")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "item not found")
	}
	return nil
}
