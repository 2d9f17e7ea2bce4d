package handlers

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/reports"
	"github.com/aminrz/farm_bot/internal/security"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowFinRecord = "fin_record"

	StepFinKind   = "kind"
	StepFinAmount = "amount"
	StepFinNote   = "note"
	StepFinDate   = "date"
)

func (h *HandlerManager) ShowFinanceMenu(userID int64, bot BotInterface) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAddRecord, Callback("fin", "record")),
			tgbotapi.NewInlineKeyboardButtonData("📊 This month", Callback("fin", "summary")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Month report (xlsx)", Callback("fin", "report")),
		),
	)
	bot.SendMessage(userID, "💰 Finance. What do you want to do?", keyboard)
}

func (h *HandlerManager) StartFinanceRecord(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowFinRecord, StepFinKind)
	bot.SendMessage(userID, MsgFinKindPrompt, FinanceKindKeyboard())
}

func (h *HandlerManager) HandleFinanceInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	switch sess.Step {
	case StepFinAmount:
		amount, ok := utils.ParsePositiveQuantity(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidQuantity, cancelKeyboard("fin"))
			return
		}
		h.Sessions.Advance(userID, StepFinNote, map[string]interface{}{"amount": amount})
		bot.SendMessage(userID, MsgFinNotePrompt, skipKeyboard("fin"))

	case StepFinNote:
		note := security.SanitizeText(message.Text)
		if note == ArgNone {
			note = ""
		}
		h.Sessions.Advance(userID, StepFinDate, map[string]interface{}{"note": note})
		bot.SendMessage(userID, MsgFinDatePrompt, todayKeyboard("fin"))

	case StepFinDate:
		date, ok := utils.ParseDate(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidDate, todayKeyboard("fin"))
			return
		}
		h.finishFinanceRecord(userID, date, bot)
	}
}

func (h *HandlerManager) HandleFinanceCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID
	sess := h.Sessions.Get(userID)

	switch command {
	case "menu":
		h.ShowFinanceMenu(userID, bot)

	case "record":
		h.StartFinanceRecord(userID, bot)

	case "kind":
		if sess.Flow != FlowFinRecord || sess.Step != StepFinKind {
			return
		}
		kind := Arg(args, 0)
		if kind != models.FinanceExpense && kind != models.FinanceIncome {
			return
		}
		h.Sessions.Advance(userID, StepFinAmount, map[string]interface{}{"kind": kind})
		bot.SendMessage(userID, MsgFinAmountPrompt, cancelKeyboard("fin"))

	case "skip":
		if sess.Flow == FlowFinRecord && sess.Step == StepFinNote {
			h.Sessions.Advance(userID, StepFinDate, map[string]interface{}{"note": ""})
			bot.SendMessage(userID, MsgFinDatePrompt, todayKeyboard("fin"))
		}

	case "today":
		if sess.Flow == FlowFinRecord && sess.Step == StepFinDate {
			h.finishFinanceRecord(userID, today(), bot)
		}

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "summary":
		h.showFinanceSummary(userID, bot)

	case "report":
		h.sendFinanceReport(userID, bot)
	}
}

func (h *HandlerManager) finishFinanceRecord(userID int64, date time.Time, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	kind, _ := sess.String("kind")
	amount, _ := sess.Float("amount")
	note, _ := sess.String("note")

	record := &models.FinanceRecord{
		FarmID:     m.Farm.ID,
		Kind:       kind,
		Amount:     amount,
		Note:       note,
		RecordDate: date,
		CreatedBy:  m.User.ID,
	}
	if err := h.FinanceRepo.CreateRecord(record); err != nil {
		logger.Error("Failed to create finance record", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	label := kind
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgFinRecorded, label, amount, date.Format(utils.DateLayout)), MainMenuKeyboard())
}

func (h *HandlerManager) showFinanceSummary(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	now := time.Now().UTC()
	summary, err := h.FinanceRepo.SummaryForMonth(m.Farm.ID, now.Year(), now.Month())
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}

	bot.SendMessage(userID, fmt.Sprintf(MsgFinSummary,
		now.Month().String(), now.Year(),
		summary.Income, summary.Expense, summary.Income-summary.Expense), nil)
}

func (h *HandlerManager) sendFinanceReport(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !m.User.HasActivePremium(time.Now().UTC()) {
		bot.SendMessage(userID, MsgPremiumOnly, nil)
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	records, err := h.FinanceRepo.ListForRange(m.Farm.ID, from, to)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if len(records) == 0 {
		bot.SendMessage(userID, MsgFinReportEmpty, nil)
		return
	}

	buf, err := reports.FinanceReport(records)
	if err != nil {
		logger.Error("Failed to build finance report", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	bot.SendDocument(userID, "finance_report.xlsx", buf.Bytes(), fmt.Sprintf("💰 Finance, %s %d", now.Month(), now.Year()))
}
