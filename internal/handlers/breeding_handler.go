package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowBreedRecord = "breed_record"

	StepBreedDam   = "dam"
	StepBreedType  = "type"
	StepBreedSire  = "sire"
	StepBreedDate  = "date"
	StepBreedNotes = "notes"
)

func (h *HandlerManager) ShowBreedingMenu(userID int64, bot BotInterface) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAddRecord, Callback("breed", "record")),
			tgbotapi.NewInlineKeyboardButtonData("📋 Recent events", Callback("breed", "recent")),
		),
	)
	bot.SendMessage(userID, "🐄 Breeding. What do you want to do?", keyboard)
}

// StartBreedRecord begins the event flow with the dam selection page.
// Only breeding-eligible animals are offered.
func (h *HandlerManager) StartBreedRecord(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowBreedRecord, StepBreedDam)
	h.showDamPage(userID, m.Farm.ID, 0, bot)
}

func (h *HandlerManager) showDamPage(userID int64, farmID uint, page int, bot BotInterface) {
	if page < 0 {
		page = 0
	}
	animals, total, err := h.AnimalRepo.ListBreedingEligible(farmID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		logger.Error("Failed to list breeding-eligible animals", "error", err, "farm_id", farmID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if total == 0 {
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgBreedNoEligible, nil)
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(animals) == 0 {
		animals, _, err = h.AnimalRepo.ListBreedingEligible(farmID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	ids := make([]uint, len(animals))
	labels := make([]string, len(animals))
	for i, a := range animals {
		ids[i] = a.ID
		labels[i] = fmt.Sprintf("%s (%s)", a.Name, a.Phase)
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	keyboard := tokenListKeyboard("breed", "pick", "page", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("breed", "cancel")),
	))
	bot.SendMessage(userID, fmt.Sprintf(MsgBreedPickDam, total), keyboard)
}

func (h *HandlerManager) showSirePage(userID int64, farmID uint, page int, bot BotInterface) {
	if page < 0 {
		page = 0
	}
	sires, total, err := h.AnimalRepo.ListSires(farmID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if total == 0 {
		// No sires on the farm, record the event without one.
		h.Sessions.Advance(userID, StepBreedDate, map[string]interface{}{"sire_id": uint(0)})
		bot.SendMessage(userID, MsgBreedDatePrompt, todayKeyboard("breed"))
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(sires) == 0 {
		sires, _, err = h.AnimalRepo.ListSires(farmID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	ids := make([]uint, len(sires))
	labels := make([]string, len(sires))
	for i, s := range sires {
		ids[i] = s.ID
		labels[i] = s.Name
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	keyboard := tokenListKeyboard("breed", "sirepick", "sirepage", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnSkip, Callback("breed", "skip")),
		tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("breed", "cancel")),
	))
	bot.SendMessage(userID, MsgBreedSirePrompt, keyboard)
}

func (h *HandlerManager) HandleBreedingInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	switch sess.Step {
	case StepBreedDate:
		date, ok := utils.ParseDate(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidDate, todayKeyboard("breed"))
			return
		}
		h.Sessions.Advance(userID, StepBreedNotes, map[string]interface{}{"date": date.Format(utils.DateLayout)})
		bot.SendMessage(userID, "📝 Any notes? Send them, or tap Skip.", skipKeyboard("breed"))

	case StepBreedNotes:
		notes := security.SanitizeText(message.Text)
		if notes == ArgNone {
			notes = ""
		}
		h.finishBreedRecord(userID, notes, bot)
	}
}

func (h *HandlerManager) HandleBreedingCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID
	sess := h.Sessions.Get(userID)

	switch command {
	case "menu":
		h.ShowBreedingMenu(userID, bot)

	case "record":
		h.StartBreedRecord(userID, bot)

	case "page":
		if sess.Flow != FlowBreedRecord || sess.Step != StepBreedDam {
			return
		}
		if m, err := h.ResolveMembership(userID); err == nil {
			h.showDamPage(userID, m.Farm.ID, ArgInt(args, 0, 0), bot)
		}

	case "pick":
		if sess.Flow != FlowBreedRecord || sess.Step != StepBreedDam {
			return
		}
		damID, ok := h.Sessions.ResolveToken(userID, Arg(args, 0))
		if !ok {
			if m, err := h.ResolveMembership(userID); err == nil {
				bot.SendMessage(userID, MsgStaleListButtons, nil)
				h.showDamPage(userID, m.Farm.ID, ArgInt(args, 1, 0), bot)
			}
			return
		}
		h.Sessions.Advance(userID, StepBreedType, map[string]interface{}{"animal_id": damID})
		bot.SendMessage(userID, MsgBreedTypePrompt, EventTypeKeyboard())

	case "type":
		if sess.Flow != FlowBreedRecord || sess.Step != StepBreedType {
			return
		}
		eventType := Arg(args, 0)
		if !models.ValidEventType(eventType) {
			return
		}
		h.Sessions.Advance(userID, StepBreedSire, map[string]interface{}{"event_type": eventType})
		if m, err := h.ResolveMembership(userID); err == nil {
			h.showSirePage(userID, m.Farm.ID, 0, bot)
		}

	case "sirepage":
		if sess.Flow != FlowBreedRecord || sess.Step != StepBreedSire {
			return
		}
		if m, err := h.ResolveMembership(userID); err == nil {
			h.showSirePage(userID, m.Farm.ID, ArgInt(args, 0, 0), bot)
		}

	case "sirepick":
		if sess.Flow != FlowBreedRecord || sess.Step != StepBreedSire {
			return
		}
		sireID, ok := h.Sessions.ResolveToken(userID, Arg(args, 0))
		if !ok {
			if m, err := h.ResolveMembership(userID); err == nil {
				bot.SendMessage(userID, MsgStaleListButtons, nil)
				h.showSirePage(userID, m.Farm.ID, ArgInt(args, 1, 0), bot)
			}
			return
		}
		h.Sessions.Advance(userID, StepBreedDate, map[string]interface{}{"sire_id": sireID})
		bot.SendMessage(userID, MsgBreedDatePrompt, todayKeyboard("breed"))

	case "skip":
		switch {
		case sess.Flow == FlowBreedRecord && sess.Step == StepBreedSire:
			h.Sessions.Advance(userID, StepBreedDate, map[string]interface{}{"sire_id": uint(0)})
			bot.SendMessage(userID, MsgBreedDatePrompt, todayKeyboard("breed"))
		case sess.Flow == FlowBreedRecord && sess.Step == StepBreedNotes:
			h.finishBreedRecord(userID, "", bot)
		}

	case "today":
		if sess.Flow == FlowBreedRecord && sess.Step == StepBreedDate {
			h.Sessions.Advance(userID, StepBreedNotes, map[string]interface{}{"date": today().Format(utils.DateLayout)})
			bot.SendMessage(userID, "📝 Any notes? Send them, or tap Skip.", skipKeyboard("breed"))
		}

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "recent":
		h.showRecentBreeding(userID, bot)
	}
}

func (h *HandlerManager) finishBreedRecord(userID int64, notes string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	damID, _ := sess.Uint("animal_id")
	eventType, _ := sess.String("event_type")
	dateStr, _ := sess.String("date")
	sireID, _ := sess.Uint("sire_id")

	date, ok := utils.ParseDate(dateStr)
	if !ok {
		date = today()
	}

	event := &models.BreedingEvent{
		FarmID:    m.Farm.ID,
		AnimalID:  damID,
		EventType: eventType,
		EventDate: date,
		Notes:     notes,
		CreatedBy: m.User.ID,
	}
	if sireID != 0 {
		event.SireID = &sireID
	}

	if err := h.BreedingRepo.CreateEvent(event); err != nil {
		logger.Error("Failed to create breeding event", "error", err, "animal_id", damID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	dam, derr := h.AnimalRepo.GetAnimalByID(m.Farm.ID, damID)
	name := "the animal"
	if derr == nil {
		name = dam.Name
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgBreedRecorded, name, eventType, date.Format(utils.DateLayout)), MainMenuKeyboard())
}

func (h *HandlerManager) showRecentBreeding(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	events, err := h.BreedingRepo.ListRecent(m.Farm.ID, 10)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if len(events) == 0 {
		bot.SendMessage(userID, MsgBreedListEmpty, nil)
		return
	}

	text := MsgBreedListTitle + "\n\n"
	for _, e := range events {
		name := fmt.Sprintf("#%d", e.AnimalID)
		if a, aerr := h.AnimalRepo.GetAnimalByID(m.Farm.ID, e.AnimalID); aerr == nil {
			name = a.Name
		}
		line := fmt.Sprintf("• %s - %s on %s", name, e.EventType, e.EventDate.Format(utils.DateLayout))
		if e.Notes != "" {
			line += " (" + e.Notes + ")"
		}
		text += line + "\n"
	}
	bot.SendMessage(userID, text, nil)
}
