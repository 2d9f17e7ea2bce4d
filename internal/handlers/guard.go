package handlers

import (
	"github.com/aminrz/farm_bot/internal/models"
	apperrors "github.com/aminrz/farm_bot/pkg/errors"
)

// Membership ties a user to their farm and role for one update's worth
// of permission checks.
type Membership struct {
	User *models.User
	Farm *models.Farm
	Role string
}

// ResolveMembership loads the caller's farm context. The membership row
// is authoritative; owning a farm without one still resolves as owner
// so pre-membership farms keep working.
func (h *HandlerManager) ResolveMembership(telegramID int64) (*Membership, error) {
	user, err := h.UserRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}

	member, err := h.FarmRepo.GetMembership(user.ID)
	if err == nil {
		farm, ferr := h.FarmRepo.GetFarmByID(member.FarmID)
		if ferr != nil {
			return nil, ferr
		}
		return &Membership{User: user, Farm: farm, Role: member.Role}, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	farm, err := h.FarmRepo.GetFarmByOwner(user.ID)
	if err != nil {
		return nil, err
	}
	return &Membership{User: user, Farm: farm, Role: models.RoleOwner}, nil
}

// CanEdit reports whether a role may create or change records.
func CanEdit(role string) bool {
	switch role {
	case models.RoleOwner, models.RoleManager, models.RoleWorker:
		return true
	}
	return false
}

// CanManage reports whether a role may manage members and invitations.
func CanManage(role string) bool {
	return role == models.RoleOwner || role == models.RoleManager
}
