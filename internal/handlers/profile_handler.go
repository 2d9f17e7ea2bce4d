package handlers

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowPayment = "payment"

	StepReceipt = "receipt"
)

func (h *HandlerManager) ShowProfile(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	premium := "no"
	if m.User.HasActivePremium(time.Now()) {
		premium = "until " + m.User.PremiumUntil.Format(utils.DateLayout)
	}

	text := fmt.Sprintf(MsgProfile,
		m.User.FullName,
		m.Farm.Name,
		m.Role,
		premium,
		m.User.CreatedAt.Format(utils.DateLayout),
	)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐️ Get premium", Callback("prof", "premium")),
		),
	)
	bot.SendMessage(userID, text, keyboard)
}

func (h *HandlerManager) HandleProfileCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID

	switch command {
	case "premium":
		if pending, err := h.PaymentRepo.GetAwaitingByUser(h.mustUserID(userID)); err == nil && pending != nil {
			bot.SendMessage(userID, MsgReceiptPending, nil)
			return
		}
		bot.SendMessage(userID, MsgPremiumPlans, PremiumPlanKeyboard())

	case "plan":
		h.startPayment(userID, Arg(args, 0), bot)

	case "confirm":
		h.handlePaymentVerdict(query, Arg(args, 0), true, bot)

	case "reject":
		h.handlePaymentVerdict(query, Arg(args, 0), false, bot)

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, nil)
	}
}

func (h *HandlerManager) startPayment(userID int64, plan string, bot BotInterface) {
	if plan != models.PlanMonthly && plan != models.PlanYearly {
		return
	}
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	payment := &models.Payment{
		UserID:    user.ID,
		Reference: uuid.NewString(),
		Plan:      plan,
		Status:    models.PaymentAwaiting,
	}
	if err := h.PaymentRepo.CreatePayment(payment); err != nil {
		logger.Error("Failed to create payment", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	h.Sessions.Start(userID, FlowPayment, StepReceipt)
	h.Sessions.Advance(userID, StepReceipt, map[string]interface{}{"payment_id": payment.ID})
	bot.SendMessage(userID, fmt.Sprintf(MsgPaymentRef, payment.Reference), cancelKeyboard("prof"))
}

// HandlePaymentPhoto forwards the receipt photo to the admin for review.
func (h *HandlerManager) HandlePaymentPhoto(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID

	sess := h.Sessions.Get(userID)
	if sess.Flow != FlowPayment || sess.Step != StepReceipt {
		return
	}
	if len(message.Photo) == 0 {
		bot.SendMessage(userID, MsgReceiptWait, nil)
		return
	}

	paymentID, _ := sess.Uint("payment_id")
	payment, err := h.PaymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	// Largest size is last in the array.
	photoID := message.Photo[len(message.Photo)-1].FileID

	caption := fmt.Sprintf("💳 Payment review\nReference: %s\nPlan: %s\nFrom: %s",
		payment.Reference, payment.Plan, message.From.FirstName)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", Callback("prof", "confirm", fmt.Sprintf("%d", payment.ID))),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", Callback("prof", "reject", fmt.Sprintf("%d", payment.ID))),
		),
	)

	if h.Config.AdminTelegramID != 0 {
		bot.SendPhoto(h.Config.AdminTelegramID, photoID, caption, keyboard)
	} else {
		logger.Warn("No admin configured, payment left awaiting", "payment_id", payment.ID)
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, MsgReceiptPending, MainMenuKeyboard())
}

func (h *HandlerManager) handlePaymentVerdict(query *tgbotapi.CallbackQuery, arg string, approve bool, bot BotInterface) {
	if query.From.ID != h.Config.AdminTelegramID {
		return
	}

	paymentID := uint(utils.AtoiDefault(arg, 0))
	payment, err := h.PaymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		bot.AnswerCallbackQuery(query.ID, "Payment not found", true)
		return
	}
	if payment.Status != models.PaymentAwaiting {
		bot.AnswerCallbackQuery(query.ID, "Already handled", true)
		return
	}

	user, err := h.UserRepo.GetUserByID(payment.UserID)
	if err != nil {
		bot.AnswerCallbackQuery(query.ID, "User not found", true)
		return
	}

	if !approve {
		if err := h.PaymentRepo.UpdateStatus(payment.ID, models.PaymentRejected); err != nil {
			bot.AnswerCallbackQuery(query.ID, "Update failed", true)
			return
		}
		bot.AnswerCallbackQuery(query.ID, "Rejected", false)
		bot.SendMessage(user.TelegramID, MsgPaymentDenied, nil)
		return
	}

	until := time.Now().AddDate(0, 0, 30)
	if payment.Plan == models.PlanYearly {
		until = time.Now().AddDate(0, 0, 365)
	}
	if err := h.UserRepo.SetPremium(user.ID, until); err != nil {
		bot.AnswerCallbackQuery(query.ID, "Update failed", true)
		return
	}
	if err := h.PaymentRepo.UpdateStatus(payment.ID, models.PaymentConfirmed); err != nil {
		logger.Error("Premium granted but status update failed", "error", err, "payment_id", payment.ID)
	}

	logger.Info("Premium activated", "user_id", user.ID, "plan", payment.Plan)
	bot.AnswerCallbackQuery(query.ID, "Confirmed", false)
	bot.SendMessage(user.TelegramID, fmt.Sprintf(MsgPremiumActive, until.Format(utils.DateLayout)), nil)
}

// mustUserID maps a Telegram ID to the internal user ID, zero when unknown.
func (h *HandlerManager) mustUserID(telegramID int64) uint {
	user, err := h.UserRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		return 0
	}
	return user.ID
}
