package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	apperrors "github.com/aminrz/farm_bot/pkg/errors"
	"github.com/aminrz/farm_bot/pkg/logger"
)

const (
	FlowFarmCreate = "farm_create"
	FlowAsk        = "ask"

	StepFarmName    = "name"
	StepAskQuestion = "question"
)

// EnsureUser loads the caller's account, creating one on first contact.
// There is no registration flow; the Telegram profile is enough.
func (h *HandlerManager) EnsureUser(from *tgbotapi.User) (*models.User, error) {
	user, err := h.UserRepo.GetUserByTelegramID(from.ID)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name == "" {
		name = from.UserName
	}
	user = &models.User{
		TelegramID:   from.ID,
		FullName:     security.SanitizeText(name),
		Username:     from.UserName,
		LanguageCode: from.LanguageCode,
	}
	if err := h.UserRepo.CreateUser(user); err != nil {
		return nil, err
	}
	logger.Info("New user registered", "telegram_id", from.ID)
	return user, nil
}

// HandleStart routes /start: deep-link joins, returning members, and
// first-time setup.
func (h *HandlerManager) HandleStart(userID int64, from *tgbotapi.User, args string, bot BotInterface) {
	h.Sessions.Clear(userID)

	if _, err := h.EnsureUser(from); err != nil {
		logger.Error("Failed to ensure user", "error", err, "telegram_id", userID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	if strings.HasPrefix(args, "inv_") {
		h.RedeemDeepLink(userID, strings.TrimPrefix(args, "inv_"), bot)
		return
	}

	if _, err := h.ResolveMembership(userID); err == nil {
		bot.SendMessage(userID, MsgWelcomeBack, MainMenuKeyboard())
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏡 Create a farm", Callback("farm", "create")),
			tgbotapi.NewInlineKeyboardButtonData("🔑 Redeem a code", Callback("role", "redeem")),
		),
	)
	bot.SendMessage(userID, MsgWelcome, keyboard)
}

func (h *HandlerManager) HandleFarmCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID

	switch command {
	case "create":
		if _, err := h.ResolveMembership(userID); err == nil {
			bot.SendMessage(userID, MsgAlreadyMember, nil)
			return
		}
		h.Sessions.Start(userID, FlowFarmCreate, StepFarmName)
		bot.SendMessage(userID, MsgFarmNamePrompt, nil)

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, nil)
	}
}

func (h *HandlerManager) HandleFarmInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID

	name := security.SanitizeText(message.Text)
	if name == "" {
		bot.SendMessage(userID, MsgInvalidName, nil)
		return
	}

	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	farm := &models.Farm{Name: name, OwnerID: user.ID}
	if err := h.FarmRepo.CreateFarm(farm); err != nil {
		logger.Error("Failed to create farm", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgFarmCreated, farm.Name), MainMenuKeyboard())
}

// StartAsk begins the free-form question flow.
func (h *HandlerManager) StartAsk(userID int64, bot BotInterface) {
	if _, err := h.ResolveMembership(userID); err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	h.Sessions.Start(userID, FlowAsk, StepAskQuestion)
	bot.SendMessage(userID, MsgAsk, nil)
}

// HandleAskInput forwards the question to the farm owner.
func (h *HandlerManager) HandleAskInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID

	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}

	question := security.SanitizeText(message.Text)
	if question == "" {
		bot.SendMessage(userID, MsgInvalidName, nil)
		return
	}

	owner, err := h.UserRepo.GetUserByID(m.Farm.OwnerID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	if owner.TelegramID != userID {
		bot.SendMessage(owner.TelegramID, fmt.Sprintf("💬 Question from %s:\n\n%s", m.User.FullName, question), nil)
	}
	bot.SendMessage(userID, MsgAskForwarded, MainMenuKeyboard())
}
