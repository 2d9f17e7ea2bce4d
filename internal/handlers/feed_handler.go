package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	"github.com/aminrz/farm_bot/internal/session"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowFeedCreate = "feed_create"

	StepFeedName       = "name"
	StepFeedComponents = "components"
)

func (h *HandlerManager) ShowFeedList(userID int64, page int, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	if page < 0 {
		page = 0
	}
	formulas, total, err := h.FeedRepo.ListFormulas(m.Farm.ID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		logger.Error("Failed to list feed formulas", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if total == 0 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➕ New formula", Callback("feed", "create")),
			),
		)
		bot.SendMessage(userID, MsgFeedListEmpty, keyboard)
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(formulas) == 0 {
		formulas, _, err = h.FeedRepo.ListFormulas(m.Farm.ID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	ids := make([]uint, len(formulas))
	labels := make([]string, len(formulas))
	for i, f := range formulas {
		ids[i] = f.ID
		labels[i] = f.Name
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	keyboard := tokenListKeyboard("feed", "pick", "page", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ New formula", Callback("feed", "create")),
	))
	bot.SendMessage(userID, fmt.Sprintf(MsgFeedListTitle, total), keyboard)
}

func (h *HandlerManager) StartFeedCreate(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowFeedCreate, StepFeedName)
	bot.SendMessage(userID, MsgFeedNamePrompt, cancelKeyboard("feed"))
}

func doneKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnDone, Callback("feed", "done")),
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("feed", "cancel")),
		),
	)
}

func (h *HandlerManager) HandleFeedInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	switch sess.Step {
	case StepFeedName:
		name := security.SanitizeText(message.Text)
		if name == "" {
			bot.SendMessage(userID, MsgInvalidName, cancelKeyboard("feed"))
			return
		}
		h.Sessions.Advance(userID, StepFeedComponents, map[string]interface{}{
			"name":       name,
			"components": []models.FeedComponent{},
		})
		bot.SendMessage(userID, MsgFeedComponentPrompt, doneKeyboard())

	case StepFeedComponents:
		comp, ok := parseComponent(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgFeedInvalidComp, doneKeyboard())
			return
		}

		components := currentComponents(sess)
		components = append(components, comp)
		h.Sessions.Advance(userID, StepFeedComponents, map[string]interface{}{"components": components})

		sum := 0.0
		for _, c := range components {
			sum += c.Proportion
		}
		bot.SendMessage(userID, fmt.Sprintf(MsgFeedComponentAdded, comp.Name, comp.Proportion, sum), doneKeyboard())
	}
}

func (h *HandlerManager) HandleFeedCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID

	switch command {
	case "menu", "list":
		h.ShowFeedList(userID, 0, bot)

	case "page":
		h.ShowFeedList(userID, ArgInt(args, 0, 0), bot)

	case "create":
		h.StartFeedCreate(userID, bot)

	case "done":
		h.finishFeedCreate(userID, bot)

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "pick":
		formulaID, ok := h.Sessions.ResolveToken(userID, Arg(args, 0))
		if !ok {
			bot.SendMessage(userID, MsgStaleListButtons, nil)
			h.ShowFeedList(userID, ArgInt(args, 1, 0), bot)
			return
		}
		h.showFeedDetail(userID, formulaID, bot)

	case "delete":
		h.handleFeedDelete(userID, Arg(args, 0), bot)
	}
}

// finishFeedCreate enforces the balance rule: component proportions
// must total 100 within the configured tolerance. Off-balance formulas
// stay editable instead of being dropped.
func (h *HandlerManager) finishFeedCreate(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)
	if sess.Flow != FlowFeedCreate || sess.Step != StepFeedComponents {
		return
	}

	components := currentComponents(sess)
	if len(components) == 0 {
		bot.SendMessage(userID, MsgFeedNoComponents, doneKeyboard())
		return
	}

	name, _ := sess.String("name")
	formula := &models.FeedFormula{
		FarmID:     m.Farm.ID,
		Name:       name,
		Components: components,
		CreatedBy:  m.User.ID,
	}

	if !formula.ProportionsBalanced(h.Config.ProportionTolerance) {
		bot.SendMessage(userID, fmt.Sprintf(MsgFeedUnbalanced, formula.ProportionSum(), h.Config.ProportionTolerance), doneKeyboard())
		return
	}

	if err := h.FeedRepo.CreateFormula(formula); err != nil {
		logger.Error("Failed to create feed formula", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgFeedCreated, formula.Name, len(formula.Components)), MainMenuKeyboard())
}

func (h *HandlerManager) showFeedDetail(userID int64, formulaID uint, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	formula, err := h.FeedRepo.GetFormulaByID(m.Farm.ID, formulaID)
	if err != nil {
		bot.SendMessage(userID, MsgFeedNotFound, nil)
		return
	}

	text := fmt.Sprintf("🌾 %s\n➖➖➖➖➖➖➖➖\n", formula.Name)
	for _, c := range formula.Components {
		text += fmt.Sprintf("• %s: %.1f%%\n", c.Name, c.Proportion)
	}
	text += fmt.Sprintf("Total: %.1f%%", formula.ProportionSum())

	tokens := h.Sessions.SetTokens(userID, []uint{formula.ID})

	var rows [][]tgbotapi.InlineKeyboardButton
	if CanEdit(m.Role) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnDelete, Callback("feed", "delete", tokens[0])),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnBack, Callback("feed", "list")),
	))
	bot.SendMessage(userID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *HandlerManager) handleFeedDelete(userID int64, token string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	formulaID, ok := h.Sessions.ResolveToken(userID, token)
	if !ok {
		bot.SendMessage(userID, MsgStaleListButtons, nil)
		h.ShowFeedList(userID, 0, bot)
		return
	}

	formula, err := h.FeedRepo.GetFormulaByID(m.Farm.ID, formulaID)
	if err != nil {
		bot.SendMessage(userID, MsgFeedNotFound, nil)
		return
	}

	if err := h.FeedRepo.DeleteFormula(m.Farm.ID, formulaID); err != nil {
		logger.Error("Failed to delete feed formula", "error", err, "formula_id", formulaID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	h.Sessions.ClearTokens(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgFeedDeleted, formula.Name), nil)
}

// parseComponent reads "name percent" where the percent is the last
// whitespace-separated field. Names may contain spaces.
func parseComponent(input string) (models.FeedComponent, bool) {
	fields := strings.Fields(security.SanitizeText(input))
	if len(fields) < 2 {
		return models.FeedComponent{}, false
	}

	proportion, ok := utils.ParsePositiveQuantity(fields[len(fields)-1])
	if !ok {
		return models.FeedComponent{}, false
	}

	name := strings.Join(fields[:len(fields)-1], " ")
	return models.FeedComponent{Name: name, Proportion: proportion}, true
}

func currentComponents(sess *session.Session) []models.FeedComponent {
	v, ok := sess.Value("components")
	if !ok {
		return nil
	}
	components, _ := v.([]models.FeedComponent)
	return components
}
