package handlers

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowAnimalAdd = "animal_add"

	StepAnimalName   = "name"
	StepAnimalGender = "gender"
	StepAnimalPhase  = "phase"
	StepAnimalTag    = "tag"
	StepAnimalBirth  = "birth"
)

// ShowAnimalList renders one page of the herd as token buttons.
func (h *HandlerManager) ShowAnimalList(userID int64, page int, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	if page < 0 {
		page = 0
	}
	animals, total, err := h.AnimalRepo.ListAnimals(m.Farm.ID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		logger.Error("Failed to list animals", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(animals) == 0 && total > 0 {
		// Requested page fell off the end, reload the clamped one.
		animals, _, err = h.AnimalRepo.ListAnimals(m.Farm.ID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	if total == 0 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(BtnAddAnimal, Callback("animal", "add")),
			),
		)
		bot.SendMessage(userID, MsgAnimalListEmpty, keyboard)
		return
	}

	ids := make([]uint, len(animals))
	labels := make([]string, len(animals))
	for i, a := range animals {
		ids[i] = a.ID
		labels[i] = fmt.Sprintf("%s (%s)", a.Name, a.Phase)
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	// Pick payloads carry the page so a stale token can re-render it.
	keyboard := tokenListKeyboard("animal", "pick", "page", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnAddAnimal, Callback("animal", "add")),
	))

	bot.SendMessage(userID, fmt.Sprintf(MsgAnimalListTitle, total), keyboard)
}

// StartAnimalAdd begins the add-animal flow at the name step.
func (h *HandlerManager) StartAnimalAdd(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowAnimalAdd, StepAnimalName)
	bot.SendMessage(userID, MsgAnimalNamePrompt, cancelKeyboard("animal"))
}

// HandleAnimalInput consumes free-text steps of the add flow.
func (h *HandlerManager) HandleAnimalInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	switch sess.Step {
	case StepAnimalName:
		name := security.SanitizeText(message.Text)
		if name == "" {
			bot.SendMessage(userID, MsgInvalidName, cancelKeyboard("animal"))
			return
		}
		h.Sessions.Advance(userID, StepAnimalGender, map[string]interface{}{"name": name})
		bot.SendMessage(userID, MsgAnimalGenderPrompt, GenderKeyboard())

	case StepAnimalTag:
		tag := security.SanitizeText(message.Text)
		if tag == ArgNone {
			tag = ""
		}
		h.Sessions.Advance(userID, StepAnimalBirth, map[string]interface{}{"tag": tag})
		bot.SendMessage(userID, MsgAnimalBirthPrompt, skipKeyboard("animal"))

	case StepAnimalBirth:
		if strings.TrimSpace(message.Text) == ArgNone {
			h.finishAnimalAdd(userID, time.Time{}, bot)
			return
		}
		birth, ok := utils.ParseDate(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidDate, skipKeyboard("animal"))
			return
		}
		h.finishAnimalAdd(userID, birth, bot)

	default:
		logger.Warn("Unexpected text during animal add", "step", sess.Step, "user_id", userID)
	}
}

// HandleAnimalCallback routes "animal:<command>:<args...>" payloads.
func (h *HandlerManager) HandleAnimalCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID
	sess := h.Sessions.Get(userID)

	switch command {
	case "menu", "list":
		h.ShowAnimalList(userID, 0, bot)

	case "page":
		h.ShowAnimalList(userID, ArgInt(args, 0, 0), bot)

	case "add":
		h.StartAnimalAdd(userID, bot)

	case "gender":
		if sess.Flow != FlowAnimalAdd || sess.Step != StepAnimalGender {
			return
		}
		gender := Arg(args, 0)
		if gender != models.GenderMale && gender != models.GenderFemale {
			return
		}
		h.Sessions.Advance(userID, StepAnimalPhase, map[string]interface{}{"gender": gender})
		bot.SendMessage(userID, MsgAnimalPhasePrompt, PhaseKeyboard("phase"))

	case "phase":
		if sess.Flow != FlowAnimalAdd || sess.Step != StepAnimalPhase {
			return
		}
		phase := Arg(args, 0)
		if !models.ValidPhase(phase) {
			return
		}
		h.Sessions.Advance(userID, StepAnimalTag, map[string]interface{}{"phase": phase})
		bot.SendMessage(userID, MsgAnimalTagPrompt, skipKeyboard("animal"))

	case "skip":
		switch {
		case sess.Flow == FlowAnimalAdd && sess.Step == StepAnimalTag:
			h.Sessions.Advance(userID, StepAnimalBirth, map[string]interface{}{"tag": ""})
			bot.SendMessage(userID, MsgAnimalBirthPrompt, skipKeyboard("animal"))
		case sess.Flow == FlowAnimalAdd && sess.Step == StepAnimalBirth:
			h.finishAnimalAdd(userID, time.Time{}, bot)
		}

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "pick":
		token := Arg(args, 0)
		animalID, ok := h.Sessions.ResolveToken(userID, token)
		if !ok {
			bot.SendMessage(userID, MsgStaleListButtons, nil)
			h.ShowAnimalList(userID, ArgInt(args, 1, 0), bot)
			return
		}
		h.showAnimalDetail(userID, animalID, bot)

	case "phasemenu":
		token := Arg(args, 0)
		if _, ok := h.Sessions.ResolveToken(userID, token); !ok {
			bot.SendMessage(userID, MsgStaleListButtons, nil)
			h.ShowAnimalList(userID, 0, bot)
			return
		}
		bot.SendMessage(userID, MsgAnimalPhasePrompt, PhaseKeyboard("setphase", token))

	case "setphase":
		h.handleSetPhase(userID, Arg(args, 0), Arg(args, 1), bot)

	case "retire":
		h.handleRetire(userID, Arg(args, 0), bot)
	}
}

func (h *HandlerManager) finishAnimalAdd(userID int64, birth time.Time, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	name, _ := sess.String("name")
	gender, _ := sess.String("gender")
	phase, _ := sess.String("phase")
	tag, _ := sess.String("tag")

	animal := &models.Animal{
		FarmID:    m.Farm.ID,
		Name:      name,
		TagNumber: tag,
		Gender:    gender,
		Phase:     phase,
		BirthDate: birth,
		Active:    true,
	}
	if err := h.AnimalRepo.CreateAnimal(animal); err != nil {
		logger.Error("Failed to create animal", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgAnimalCreated, animal.Name), MainMenuKeyboard())
}

func (h *HandlerManager) showAnimalDetail(userID int64, animalID uint, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	animal, err := h.AnimalRepo.GetAnimalByID(m.Farm.ID, animalID)
	if err != nil {
		bot.SendMessage(userID, MsgAnimalNotFound, nil)
		return
	}

	tag := animal.TagNumber
	if tag == "" {
		tag = "none"
	}
	birth := "unknown"
	if !animal.BirthDate.IsZero() {
		birth = animal.BirthDate.Format(utils.DateLayout)
	}
	text := fmt.Sprintf("🐮 %s\n➖➖➖➖➖➖➖➖\nSex: %s\nPhase: %s\nTag: %s\nBorn: %s", animal.Name, animal.Gender, animal.Phase, tag, birth)

	// Re-tokenize so the detail buttons stay valid on their own.
	tokens := h.Sessions.SetTokens(userID, []uint{animal.ID})

	var rows [][]tgbotapi.InlineKeyboardButton
	if CanEdit(m.Role) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Change phase", Callback("animal", "phasemenu", tokens[0])),
			tgbotapi.NewInlineKeyboardButtonData(BtnDelete, Callback("animal", "retire", tokens[0])),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnBack, Callback("animal", "list")),
	))

	bot.SendMessage(userID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *HandlerManager) handleSetPhase(userID int64, token, phase string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	animalID, ok := h.Sessions.ResolveToken(userID, token)
	if !ok {
		bot.SendMessage(userID, MsgStaleListButtons, nil)
		h.ShowAnimalList(userID, 0, bot)
		return
	}
	if !models.ValidPhase(phase) {
		return
	}

	if err := h.AnimalRepo.UpdatePhase(m.Farm.ID, animalID, phase); err != nil {
		bot.SendMessage(userID, MsgAnimalNotFound, nil)
		return
	}

	animal, err := h.AnimalRepo.GetAnimalByID(m.Farm.ID, animalID)
	name := "The animal"
	if err == nil {
		name = animal.Name
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgAnimalPhaseSet, name, phase), nil)
}

func (h *HandlerManager) handleRetire(userID int64, token string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	animalID, ok := h.Sessions.ResolveToken(userID, token)
	if !ok {
		bot.SendMessage(userID, MsgStaleListButtons, nil)
		h.ShowAnimalList(userID, 0, bot)
		return
	}

	animal, err := h.AnimalRepo.GetAnimalByID(m.Farm.ID, animalID)
	if err != nil {
		bot.SendMessage(userID, MsgAnimalNotFound, nil)
		return
	}

	if err := h.AnimalRepo.DeleteAnimal(m.Farm.ID, animalID); err != nil {
		logger.Error("Failed to retire animal", "error", err, "animal_id", animalID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	h.Sessions.ClearTokens(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgAnimalRetired, animal.Name), nil)
}
