package handlers

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	apperrors "github.com/aminrz/farm_bot/pkg/errors"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowRedeem = "role_redeem"
	FlowRevoke = "role_revoke"

	StepCode = "code"
)

// ShowRolesMenu lists the farm's members with management buttons. Only
// owners and managers get here.
func (h *HandlerManager) ShowRolesMenu(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanManage(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
		return
	}

	members, err := h.FarmRepo.ListMembers(m.Farm.ID)
	if err != nil {
		logger.Error("Failed to list members", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	text := fmt.Sprintf(MsgRolesMenu, m.Farm.Name) + "\n\n"
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, member := range members {
		text += fmt.Sprintf("• %s - %s\n", member.FullName, member.Role)
		if member.Role != models.RoleOwner {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("⚙️ %s", member.FullName),
					Callback("role", "member", fmt.Sprintf("%d", member.MemberID)),
				),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✉️ New invitation", Callback("role", "invite")),
		tgbotapi.NewInlineKeyboardButtonData("🗑 Revoke invitation", Callback("role", "revoke")),
	))

	bot.SendMessage(userID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *HandlerManager) HandleRolesCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID

	switch command {
	case "menu":
		h.ShowRolesMenu(userID, bot)

	case "member":
		h.showMemberOptions(userID, uint(ArgInt(args, 0, 0)), bot)

	case "setrole":
		h.handleSetRole(userID, uint(ArgInt(args, 0, 0)), Arg(args, 1), bot)

	case "remove":
		h.handleRemoveMember(userID, uint(ArgInt(args, 0, 0)), bot)

	case "invite":
		m, err := h.ResolveMembership(userID)
		if err != nil || !CanManage(m.Role) {
			return
		}
		bot.SendMessage(userID, MsgInviteRolePick, InviteRoleKeyboard())

	case "invrole":
		h.handleCreateInvite(userID, Arg(args, 0), bot)

	case "revoke":
		m, err := h.ResolveMembership(userID)
		if err != nil {
			bot.SendMessage(userID, MsgNoFarm, nil)
			return
		}
		if !CanManage(m.Role) {
			bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
			return
		}
		h.Sessions.Start(userID, FlowRevoke, StepCode)
		bot.SendMessage(userID, MsgRevokePrompt, cancelKeyboard("role"))

	case "redeem":
		h.Sessions.Start(userID, FlowRedeem, StepCode)
		bot.SendMessage(userID, MsgRedeemPrompt, cancelKeyboard("role"))

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())
	}
}

// HandleRolesInput consumes typed invitation codes for the redeem and
// revoke flows, both bounded to a fixed number of attempts. The redeem
// prompt also accepts a forwarded signed token, which is case-sensitive
// where codes are not.
func (h *HandlerManager) HandleRolesInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)
	text := security.SanitizeText(message.Text)
	code := strings.ToUpper(text)

	switch sess.Flow {
	case FlowRedeem:
		if claims, err := security.ParseInviteToken(text, h.Config.InviteSecret); err == nil {
			h.Sessions.Complete(userID)
			h.redeemCode(userID, claims.Code, bot)
			return
		}
		h.handleRedeemCode(userID, code, bot)
	case FlowRevoke:
		h.handleRevokeCode(userID, code, bot)
	}
}

func (h *HandlerManager) showMemberOptions(userID int64, memberID uint, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanManage(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
		return
	}

	member, err := h.FarmRepo.GetMemberByID(m.Farm.ID, memberID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	target, err := h.UserRepo.GetUserByID(member.UserID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	bot.SendMessage(userID, fmt.Sprintf(MsgRolePickNew, target.FullName), MemberRoleKeyboard(memberID))
}

func (h *HandlerManager) handleSetRole(userID int64, memberID uint, role string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanManage(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
		return
	}
	if role == models.RoleOwner || !models.ValidRole(role) {
		return
	}

	member, err := h.FarmRepo.GetMemberByID(m.Farm.ID, memberID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if member.Role == models.RoleOwner {
		bot.SendMessage(userID, MsgRoleOwnerFixed, nil)
		return
	}

	if err := h.FarmRepo.UpdateMemberRole(memberID, role); err != nil {
		logger.Error("Failed to update member role", "error", err, "member_id", memberID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	target, terr := h.UserRepo.GetUserByID(member.UserID)
	name := "The member"
	if terr == nil {
		name = target.FullName
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgRoleChanged, name, role), nil)
}

func (h *HandlerManager) handleRemoveMember(userID int64, memberID uint, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanManage(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
		return
	}

	member, err := h.FarmRepo.GetMemberByID(m.Farm.ID, memberID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if member.Role == models.RoleOwner {
		bot.SendMessage(userID, MsgRoleOwnerFixed, nil)
		return
	}

	target, terr := h.UserRepo.GetUserByID(member.UserID)

	if err := h.FarmRepo.RemoveMember(memberID); err != nil {
		logger.Error("Failed to remove member", "error", err, "member_id", memberID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	name := "The member"
	if terr == nil {
		name = target.FullName
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgMemberRemoved, name), nil)
}

// handleCreateInvite mints a code, stores it, and wraps it in a signed
// /start deep link.
func (h *HandlerManager) handleCreateInvite(userID int64, role string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanManage(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgRolesDenied, m.Role), nil)
		return
	}
	if role == models.RoleOwner || !models.ValidRole(role) {
		return
	}

	ttl := time.Duration(h.Config.InviteTTLHours) * time.Hour
	invite := &models.InviteCode{
		FarmID:    m.Farm.ID,
		Code:      utils.GenerateInviteCode(h.Config.InviteCodeLength),
		Role:      role,
		CreatedBy: m.User.ID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := h.InviteRepo.CreateInvite(invite); err != nil {
		logger.Error("Failed to create invite", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	token, err := security.SignInviteToken(invite.Code, invite.FarmID, h.Config.InviteSecret, ttl)
	if err != nil {
		logger.Error("Failed to sign invite token", "error", err)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	// /start parameters are capped at 64 URL-safe characters, so the
	// link carries the bare code. The signed token goes into the
	// message body instead, where no size limit applies.
	link := fmt.Sprintf("https://t.me/%s?start=inv_%s", bot.Username(), invite.Code)

	bot.SendMessage(userID, fmt.Sprintf(MsgInviteCreated,
		invite.Code, invite.Role, invite.ExpiresAt.Format(utils.DateLayout), link, token), nil)
}

// RedeemDeepLink handles "/start inv_<code>" joins. The code row
// decides farm and role server-side, so the link needs nothing else.
func (h *HandlerManager) RedeemDeepLink(userID int64, payload string, bot BotInterface) {
	code := strings.ToUpper(strings.TrimSpace(payload))
	invite, err := h.InviteRepo.GetByCode(code)
	if err != nil || !invite.Usable(time.Now().UTC()) {
		bot.SendMessage(userID, MsgInviteBadToken, nil)
		return
	}
	h.redeemCode(userID, code, bot)
}

func (h *HandlerManager) handleRedeemCode(userID int64, code string, bot BotInterface) {
	invite, err := h.InviteRepo.GetByCode(code)
	if err != nil || !invite.Usable(time.Now().UTC()) {
		attempts := h.Sessions.FailAttempt(userID)
		if attempts >= h.Config.MaxRedeemAttempts {
			h.Sessions.Cancel(userID)
			bot.SendMessage(userID, MsgRedeemGiveUp, nil)
			return
		}
		bot.SendMessage(userID, fmt.Sprintf(MsgRedeemInvalid, attempts, h.Config.MaxRedeemAttempts), cancelKeyboard("role"))
		return
	}

	h.Sessions.Complete(userID)
	h.redeemCode(userID, code, bot)
}

func (h *HandlerManager) redeemCode(userID int64, code string, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	if _, merr := h.FarmRepo.GetMembership(user.ID); merr == nil {
		bot.SendMessage(userID, MsgAlreadyMember, nil)
		return
	}
	if _, ferr := h.FarmRepo.GetFarmByOwner(user.ID); ferr == nil {
		bot.SendMessage(userID, MsgAlreadyMember, nil)
		return
	}

	invite, err := h.InviteRepo.GetByCode(code)
	if err != nil {
		bot.SendMessage(userID, MsgRedeemUsed, nil)
		return
	}

	member, err := h.InviteRepo.Redeem(invite, user.ID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeExpired) {
			bot.SendMessage(userID, MsgRedeemUsed, nil)
			return
		}
		logger.Error("Failed to redeem invite", "error", err, "code", code)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	farm, ferr := h.FarmRepo.GetFarmByID(member.FarmID)
	farmName := "the farm"
	if ferr == nil {
		farmName = farm.Name
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgRedeemOK, farmName, member.Role), MainMenuKeyboard())
}

func (h *HandlerManager) handleRevokeCode(userID int64, code string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}

	if err := h.InviteRepo.Revoke(code, m.Farm.ID); err != nil {
		attempts := h.Sessions.FailAttempt(userID)
		if attempts >= h.Config.MaxRedeemAttempts {
			h.Sessions.Cancel(userID)
			bot.SendMessage(userID, MsgRevokeGiveUp, nil)
			return
		}
		bot.SendMessage(userID, fmt.Sprintf(MsgRevokeInvalid, attempts, h.Config.MaxRedeemAttempts), cancelKeyboard("role"))
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgRevokeOK, code), nil)
}
