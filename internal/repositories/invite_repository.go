package repositories

import (
	"time"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/errors"
	"gorm.io/gorm"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// CreateInvite creates a new invitation code
func (r *InviteRepository) CreateInvite(invite *models.InviteCode) error {
	result := r.db.Create(invite)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create invite")
	}
	return nil
}

// GetByCode retrieves an invitation by its code
func (r *InviteRepository) GetByCode(code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	result := r.db.Where("code = ?", code).First(&invite)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "invite not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get invite")
	}

	return &invite, nil
}

// Revoke expires an open invitation. Used or already expired codes
// report NOT_FOUND so the caller can count the attempt.
func (r *InviteRepository) Revoke(code string, farmID uint) error {
	now := time.Now().UTC()
	result := r.db.Model(&models.InviteCode{}).
		Where("code = ? AND farm_id = ? AND used_by IS NULL AND expires_at > ?", code, farmID, now).
		Update("expires_at", now)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to revoke invite")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "no open invite with that code")
	}
	return nil
}

// Redeem consumes the invite and creates the membership in one transaction.
// Returns the new membership on success.
func (r *InviteRepository) Redeem(invite *models.InviteCode, userID uint) (*models.FarmMember, error) {
	now := time.Now().UTC()
	if !invite.Usable(now) {
		return nil, errors.New(errors.ErrCodeExpired, "invite already used or expired")
	}

	member := &models.FarmMember{
		FarmID: invite.FarmID,
		UserID: userID,
		Role:   invite.Role,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Guard against double redemption racing this call.
		result := tx.Model(&models.InviteCode{}).
			Where("id = ? AND used_by IS NULL", invite.ID).
			Updates(map[string]interface{}{"used_by": userID, "used_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(member).Error
	})

	if err == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeExpired, "invite already used")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to redeem invite")
	}

	return member, nil
}
