package handlers

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/reports"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowMilkRecord = "milk_record"

	StepMilkAnimal   = "animal"
	StepMilkQuantity = "quantity"
	StepMilkDate     = "date"
)

func (h *HandlerManager) ShowMilkMenu(userID int64, bot BotInterface) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAddRecord, Callback("milk", "record")),
			tgbotapi.NewInlineKeyboardButtonData("📊 Today's total", Callback("milk", "total")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 30-day report (xlsx)", Callback("milk", "report")),
		),
	)
	bot.SendMessage(userID, "🥛 Milk. What do you want to do?", keyboard)
}

// StartMilkRecord begins the record flow with an animal selection page.
func (h *HandlerManager) StartMilkRecord(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowMilkRecord, StepMilkAnimal)
	h.showMilkAnimalPage(userID, m.Farm.ID, 0, bot)
}

func (h *HandlerManager) showMilkAnimalPage(userID int64, farmID uint, page int, bot BotInterface) {
	if page < 0 {
		page = 0
	}
	animals, total, err := h.AnimalRepo.ListMilkable(farmID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		logger.Error("Failed to list milkable animals", "error", err, "farm_id", farmID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if total == 0 {
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgMilkNoEligible, nil)
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(animals) == 0 {
		animals, _, err = h.AnimalRepo.ListMilkable(farmID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	ids := make([]uint, len(animals))
	labels := make([]string, len(animals))
	for i, a := range animals {
		ids[i] = a.ID
		labels[i] = a.Name
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	keyboard := tokenListKeyboard("milk", "pick", "page", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("milk", "cancel")),
	))
	bot.SendMessage(userID, fmt.Sprintf(MsgMilkPickAnimal, total), keyboard)
}

func (h *HandlerManager) HandleMilkInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	switch sess.Step {
	case StepMilkQuantity:
		qty, ok := utils.ParsePositiveQuantity(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidQuantity, cancelKeyboard("milk"))
			return
		}
		h.Sessions.Advance(userID, StepMilkDate, map[string]interface{}{"quantity": qty})
		bot.SendMessage(userID, MsgMilkDatePrompt, todayKeyboard("milk"))

	case StepMilkDate:
		date, ok := utils.ParseDate(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidDate, todayKeyboard("milk"))
			return
		}
		h.finishMilkRecord(userID, date, bot)
	}
}

func (h *HandlerManager) HandleMilkCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID
	sess := h.Sessions.Get(userID)

	switch command {
	case "menu":
		h.ShowMilkMenu(userID, bot)

	case "record":
		h.StartMilkRecord(userID, bot)

	case "page":
		if sess.Flow != FlowMilkRecord || sess.Step != StepMilkAnimal {
			return
		}
		m, err := h.ResolveMembership(userID)
		if err != nil {
			return
		}
		h.showMilkAnimalPage(userID, m.Farm.ID, ArgInt(args, 0, 0), bot)

	case "pick":
		if sess.Flow != FlowMilkRecord || sess.Step != StepMilkAnimal {
			return
		}
		animalID, ok := h.Sessions.ResolveToken(userID, Arg(args, 0))
		if !ok {
			m, err := h.ResolveMembership(userID)
			if err != nil {
				return
			}
			bot.SendMessage(userID, MsgStaleListButtons, nil)
			h.showMilkAnimalPage(userID, m.Farm.ID, ArgInt(args, 1, 0), bot)
			return
		}
		h.Sessions.Advance(userID, StepMilkQuantity, map[string]interface{}{"animal_id": animalID})
		bot.SendMessage(userID, MsgMilkQtyPrompt, cancelKeyboard("milk"))

	case "today":
		if sess.Flow == FlowMilkRecord && sess.Step == StepMilkDate {
			h.finishMilkRecord(userID, today(), bot)
		}

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "total":
		h.showMilkDailyTotal(userID, bot)

	case "report":
		h.sendMilkReport(userID, bot)
	}
}

func (h *HandlerManager) finishMilkRecord(userID int64, date time.Time, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	animalID, _ := sess.Uint("animal_id")
	qty, _ := sess.Float("quantity")

	animal, err := h.AnimalRepo.GetAnimalByID(m.Farm.ID, animalID)
	if err != nil {
		bot.SendMessage(userID, MsgAnimalNotFound, nil)
		h.Sessions.Cancel(userID)
		return
	}

	record := &models.MilkRecord{
		FarmID:     m.Farm.ID,
		AnimalID:   animalID,
		RecordDate: date,
		Quantity:   qty,
		RecordedBy: m.User.ID,
	}
	if err := h.MilkRepo.CreateRecord(record); err != nil {
		logger.Error("Failed to create milk record", "error", err, "animal_id", animalID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgMilkRecorded, qty, animal.Name, date.Format(utils.DateLayout)), MainMenuKeyboard())
}

func (h *HandlerManager) showMilkDailyTotal(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	day := today()
	total, err := h.MilkRepo.TotalForDate(m.Farm.ID, day)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgMilkDailyTotal, day.Format(utils.DateLayout), total), nil)
}

func (h *HandlerManager) sendMilkReport(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !m.User.HasActivePremium(time.Now().UTC()) {
		bot.SendMessage(userID, MsgPremiumOnly, nil)
		return
	}

	to := today().AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -31)
	records, err := h.MilkRepo.ListForRange(m.Farm.ID, from, to)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if len(records) == 0 {
		bot.SendMessage(userID, MsgMilkDailyTotalEmpty, nil)
		return
	}

	names := make(map[uint]string)
	animals, _, err := h.AnimalRepo.ListAnimals(m.Farm.ID, 0, 1000)
	if err == nil {
		for _, a := range animals {
			names[a.ID] = a.Name
		}
	}

	buf, err := reports.MilkReport(records, names)
	if err != nil {
		logger.Error("Failed to build milk report", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	bot.SendDocument(userID, "milk_report.xlsx", buf.Bytes(), "🥛 Milk, last 30 days")
}

// today returns midnight UTC of the current day.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
