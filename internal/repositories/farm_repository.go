package repositories

import (
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type FarmRepository struct {
	db *gorm.DB
}

func NewFarmRepository(db *gorm.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// CreateFarm creates a farm and its owner membership in one transaction
func (r *FarmRepository) CreateFarm(farm *models.Farm) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(farm).Error; err != nil {
			return err
		}
		member := &models.FarmMember{
			FarmID: farm.ID,
			UserID: farm.OwnerID,
			Role:   models.RoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create farm")
	}
	return nil
}

// GetFarmByID retrieves a farm by ID
func (r *FarmRepository) GetFarmByID(id uint) (*models.Farm, error) {
	var farm models.Farm
	result := r.db.First(&farm, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "farm not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get farm")
	}

	return &farm, nil
}

// GetFarmByOwner retrieves the farm a user owns, if any
func (r *FarmRepository) GetFarmByOwner(userID uint) (*models.Farm, error) {
	var farm models.Farm
	result := r.db.Where("owner_id = ?", userID).First(&farm)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "farm not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get farm")
	}

	return &farm, nil
}

// GetMembership retrieves a user's farm membership, if any
func (r *FarmRepository) GetMembership(userID uint) (*models.FarmMember, error) {
	var member models.FarmMember
	result := r.db.Where("user_id = ?", userID).First(&member)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "membership not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get membership")
	}

	return &member, nil
}

// GetMemberByID retrieves a membership row by its ID, farm-scoped
func (r *FarmRepository) GetMemberByID(farmID, memberID uint) (*models.FarmMember, error) {
	var member models.FarmMember
	result := r.db.Where("id = ? AND farm_id = ?", memberID, farmID).First(&member)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "member not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get member")
	}

	return &member, nil
}

// MemberInfo joins a membership with the member's display name
type MemberInfo struct {
	MemberID uint
	UserID   uint
	FullName string
	Role     string
}

// ListMembers lists all members of a farm with their display names
func (r *FarmRepository) ListMembers(farmID uint) ([]MemberInfo, error) {
	var members []MemberInfo
	result := r.db.Model(&models.FarmMember{}).
		Select("farm_members.id AS member_id, farm_members.user_id, users.full_name, farm_members.role").
		Joins("JOIN users ON users.id = farm_members.user_id").
		Where("farm_members.farm_id = ?", farmID).
		Order("farm_members.id").
		Scan(&members)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list members")
	}

	return members, nil
}

// AddMember adds a user to a farm with the given role
func (r *FarmRepository) AddMember(member *models.FarmMember) error {
	result := r.db.Create(member)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add member")
	}
	return nil
}

// UpdateMemberRole changes a member's role
func (r *FarmRepository) UpdateMemberRole(memberID uint, role string) error {
	if !models.ValidRole(role) {
		return errors.New(errors.ErrCodeValidation, "unknown role")
	}
	result := r.db.Model(&models.FarmMember{}).Where("id = ?", memberID).Update("role", role)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update role")
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *FarmRepository) RemoveMember(memberID uint) error {
	result := r.db.Delete(&models.FarmMember{}, memberID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove member")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "member not found")
	}
	return nil
}
