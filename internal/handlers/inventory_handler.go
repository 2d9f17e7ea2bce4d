package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/security"
	"github.com/aminrz/farm_bot/pkg/logger"
	"github.com/aminrz/farm_bot/pkg/utils"
)

const (
	FlowInvAdd    = "inv_add"
	FlowInvAdjust = "inv_adjust"

	StepInvName     = "name"
	StepInvCategory = "category"
	StepInvQuantity = "quantity"
	StepInvUnit     = "unit"
	StepInvCost     = "cost"
)

func (h *HandlerManager) ShowInventoryList(userID int64, page int, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	if page < 0 {
		page = 0
	}
	items, total, err := h.InventoryRepo.ListItems(m.Farm.ID, page*h.Config.PageSize, h.Config.PageSize)
	if err != nil {
		logger.Error("Failed to list inventory", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	if total == 0 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(BtnAddItem, Callback("inv", "add")),
			),
		)
		bot.SendMessage(userID, MsgInvListEmpty, keyboard)
		return
	}
	offset, page, totalPages := pageBounds(page, h.Config.PageSize, total)
	if len(items) == 0 {
		items, _, err = h.InventoryRepo.ListItems(m.Farm.ID, offset, h.Config.PageSize)
		if err != nil {
			bot.SendMessage(userID, MsgInternalError, nil)
			return
		}
	}

	ids := make([]uint, len(items))
	labels := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
		labels[i] = fmt.Sprintf("%s: %.1f %s", it.Name, it.Quantity, it.Unit)
	}
	tokens := h.Sessions.SetTokens(userID, ids)

	keyboard := tokenListKeyboard("inv", "pick", "page", tokens, labels, page, totalPages, fmt.Sprintf("%d", page))
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnAddItem, Callback("inv", "add")),
	))
	bot.SendMessage(userID, fmt.Sprintf(MsgInvListTitle, total), keyboard)
}

func (h *HandlerManager) StartInventoryAdd(userID int64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	h.Sessions.Start(userID, FlowInvAdd, StepInvName)
	bot.SendMessage(userID, MsgInvNamePrompt, cancelKeyboard("inv"))
}

func (h *HandlerManager) HandleInventoryInput(message *tgbotapi.Message, bot BotInterface) {
	userID := message.From.ID
	sess := h.Sessions.Get(userID)

	if sess.Flow == FlowInvAdjust {
		h.handleInventoryAdjustInput(userID, message.Text, bot)
		return
	}

	switch sess.Step {
	case StepInvName:
		name := security.SanitizeText(message.Text)
		if name == "" {
			bot.SendMessage(userID, MsgInvalidName, cancelKeyboard("inv"))
			return
		}
		h.Sessions.Advance(userID, StepInvCategory, map[string]interface{}{"name": name})
		bot.SendMessage(userID, MsgInvCategoryPrompt, skipKeyboard("inv"))

	case StepInvCategory:
		category := security.SanitizeText(message.Text)
		if category == ArgNone {
			category = ""
		}
		h.Sessions.Advance(userID, StepInvQuantity, map[string]interface{}{"category": category})
		bot.SendMessage(userID, MsgInvQtyPrompt, cancelKeyboard("inv"))

	case StepInvQuantity:
		qty, ok := utils.ParsePositiveQuantity(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidQuantity, cancelKeyboard("inv"))
			return
		}
		h.Sessions.Advance(userID, StepInvUnit, map[string]interface{}{"quantity": qty})
		bot.SendMessage(userID, MsgInvUnitPrompt, skipKeyboard("inv"))

	case StepInvUnit:
		unit := security.SanitizeText(message.Text)
		if unit == "" || unit == ArgNone {
			unit = models.DefaultUnit
		}
		h.Sessions.Advance(userID, StepInvCost, map[string]interface{}{"unit": unit})
		bot.SendMessage(userID, MsgInvCostPrompt, skipKeyboard("inv"))

	case StepInvCost:
		if strings.TrimSpace(message.Text) == ArgNone {
			h.finishInventoryAdd(userID, nil, bot)
			return
		}
		cost, ok := utils.ParsePositiveQuantity(message.Text)
		if !ok {
			bot.SendMessage(userID, MsgInvalidQuantity, skipKeyboard("inv"))
			return
		}
		h.finishInventoryAdd(userID, &cost, bot)
	}
}

func (h *HandlerManager) HandleInventoryCallback(query *tgbotapi.CallbackQuery, command string, args []string, bot BotInterface) {
	userID := query.From.ID
	sess := h.Sessions.Get(userID)

	switch command {
	case "menu", "list":
		h.ShowInventoryList(userID, 0, bot)

	case "page":
		h.ShowInventoryList(userID, ArgInt(args, 0, 0), bot)

	case "add":
		h.StartInventoryAdd(userID, bot)

	case "skip":
		if sess.Flow != FlowInvAdd {
			return
		}
		switch sess.Step {
		case StepInvCategory:
			h.Sessions.Advance(userID, StepInvQuantity, map[string]interface{}{"category": ""})
			bot.SendMessage(userID, MsgInvQtyPrompt, cancelKeyboard("inv"))
		case StepInvUnit:
			h.Sessions.Advance(userID, StepInvCost, map[string]interface{}{"unit": models.DefaultUnit})
			bot.SendMessage(userID, MsgInvCostPrompt, skipKeyboard("inv"))
		case StepInvCost:
			h.finishInventoryAdd(userID, nil, bot)
		}

	case "cancel":
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())

	case "pick":
		itemID, ok := h.Sessions.ResolveToken(userID, Arg(args, 0))
		if !ok {
			bot.SendMessage(userID, MsgStaleListButtons, nil)
			h.ShowInventoryList(userID, ArgInt(args, 1, 0), bot)
			return
		}
		h.showInventoryDetail(userID, itemID, bot)

	case "adjust":
		h.startInventoryAdjust(userID, Arg(args, 0), bot)

	case "delete":
		h.handleInventoryDelete(userID, Arg(args, 0), bot)
	}
}

// finishInventoryAdd persists the collected item. A skipped category
// stays NULL rather than empty string, and a skipped unit falls back to
// the default.
func (h *HandlerManager) finishInventoryAdd(userID int64, cost *float64, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	name, _ := sess.String("name")
	category, _ := sess.String("category")
	qty, _ := sess.Float("quantity")
	unit, _ := sess.String("unit")
	if unit == "" {
		unit = models.DefaultUnit
	}

	item := &models.InventoryItem{
		FarmID:      m.Farm.ID,
		Name:        name,
		Quantity:    qty,
		Unit:        unit,
		CostPerUnit: cost,
	}
	if category != "" {
		item.Category = &category
	}

	if err := h.InventoryRepo.CreateItem(item); err != nil {
		logger.Error("Failed to create inventory item", "error", err, "farm_id", m.Farm.ID)
		bot.SendMessage(userID, MsgInternalError, nil)
		h.Sessions.Cancel(userID)
		return
	}

	h.Sessions.Complete(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgInvCreated, item.Name, item.Quantity, item.Unit), MainMenuKeyboard())
}

func (h *HandlerManager) showInventoryDetail(userID int64, itemID uint, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}

	item, err := h.InventoryRepo.GetItemByID(m.Farm.ID, itemID)
	if err != nil {
		bot.SendMessage(userID, MsgInvNotFound, nil)
		return
	}

	category := "none"
	if item.Category != nil {
		category = *item.Category
	}
	cost := "unknown"
	if item.CostPerUnit != nil {
		cost = fmt.Sprintf("%.2f per %s", *item.CostPerUnit, item.Unit)
	}
	text := fmt.Sprintf("📦 %s\n➖➖➖➖➖➖➖➖\nQuantity: %.1f %s\nCategory: %s\nCost: %s", item.Name, item.Quantity, item.Unit, category, cost)

	tokens := h.Sessions.SetTokens(userID, []uint{item.ID})

	var rows [][]tgbotapi.InlineKeyboardButton
	if CanEdit(m.Role) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Adjust quantity", Callback("inv", "adjust", tokens[0])),
			tgbotapi.NewInlineKeyboardButtonData(BtnDelete, Callback("inv", "delete", tokens[0])),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnBack, Callback("inv", "list")),
	))

	bot.SendMessage(userID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *HandlerManager) startInventoryAdjust(userID int64, token string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	itemID, ok := h.Sessions.ResolveToken(userID, token)
	if !ok {
		bot.SendMessage(userID, MsgStaleListButtons, nil)
		h.ShowInventoryList(userID, 0, bot)
		return
	}

	item, err := h.InventoryRepo.GetItemByID(m.Farm.ID, itemID)
	if err != nil {
		bot.SendMessage(userID, MsgInvNotFound, nil)
		return
	}

	h.Sessions.Start(userID, FlowInvAdjust, StepInvQuantity)
	h.Sessions.Advance(userID, StepInvQuantity, map[string]interface{}{"item_id": itemID})
	bot.SendMessage(userID, fmt.Sprintf(MsgInvAdjustPrompt, item.Name, item.Quantity, item.Unit), cancelKeyboard("inv"))
}

func (h *HandlerManager) handleInventoryAdjustInput(userID int64, text string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		h.Sessions.Cancel(userID)
		return
	}
	sess := h.Sessions.Get(userID)

	qty, ok := utils.ParsePositiveQuantity(text)
	if !ok {
		bot.SendMessage(userID, MsgInvalidQuantity, cancelKeyboard("inv"))
		return
	}
	itemID, _ := sess.Uint("item_id")

	if err := h.InventoryRepo.UpdateQuantity(m.Farm.ID, itemID, qty); err != nil {
		bot.SendMessage(userID, MsgInvNotFound, nil)
		h.Sessions.Cancel(userID)
		return
	}

	item, err := h.InventoryRepo.GetItemByID(m.Farm.ID, itemID)
	h.Sessions.Complete(userID)
	if err != nil {
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	bot.SendMessage(userID, fmt.Sprintf(MsgInvAdjusted, item.Name, item.Quantity, item.Unit), MainMenuKeyboard())
}

func (h *HandlerManager) handleInventoryDelete(userID int64, token string, bot BotInterface) {
	m, err := h.ResolveMembership(userID)
	if err != nil {
		bot.SendMessage(userID, MsgNoFarm, nil)
		return
	}
	if !CanEdit(m.Role) {
		bot.SendMessage(userID, fmt.Sprintf(MsgEditDenied, m.Role), nil)
		return
	}

	itemID, ok := h.Sessions.ResolveToken(userID, token)
	if !ok {
		bot.SendMessage(userID, MsgStaleListButtons, nil)
		h.ShowInventoryList(userID, 0, bot)
		return
	}

	item, err := h.InventoryRepo.GetItemByID(m.Farm.ID, itemID)
	if err != nil {
		bot.SendMessage(userID, MsgInvNotFound, nil)
		return
	}

	if err := h.InventoryRepo.DeleteItem(m.Farm.ID, itemID); err != nil {
		logger.Error("Failed to delete inventory item", "error", err, "item_id", itemID)
		bot.SendMessage(userID, MsgInternalError, nil)
		return
	}
	h.Sessions.ClearTokens(userID)
	bot.SendMessage(userID, fmt.Sprintf(MsgInvDeleted, item.Name), nil)
}
