package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aminrz/farm_bot/internal/models"
)

// tokenListKeyboard renders one page of a selection list. Each row
// carries "<domain>:<command>:<token>"; the nav row flips pages with
// "<domain>:<pageCommand>:<page>".
func tokenListKeyboard(domain, command, pageCommand string, tokens, labels []string, page, totalPages int, pickExtra ...string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, token := range tokens {
		parts := append([]string{domain, command, token}, pickExtra...)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labels[i], Callback(parts...)),
		))
	}

	if totalPages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(BtnPrevPage, Callback(domain, pageCommand, fmt.Sprintf("%d", page-1))))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), Callback(domain, "noop")))
		if page < totalPages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(BtnNextPage, Callback(domain, pageCommand, fmt.Sprintf("%d", page+1))))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cancelKeyboard(domain string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback(domain, "cancel")),
		),
	)
}

func skipKeyboard(domain string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnSkip, Callback(domain, "skip")),
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback(domain, "cancel")),
		),
	)
}

func todayKeyboard(domain string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnToday, Callback(domain, "today")),
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback(domain, "cancel")),
		),
	)
}

func GenderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♀️ Female", Callback("animal", "gender", models.GenderFemale)),
			tgbotapi.NewInlineKeyboardButtonData("♂️ Male", Callback("animal", "gender", models.GenderMale)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("animal", "cancel")),
		),
	)
}

var phaseLabels = []struct {
	Phase string
	Label string
}{
	{models.PhaseCalf, "🐣 Calf"},
	{models.PhaseGrowing, "🌱 Growing"},
	{models.PhaseLactating, "🥛 Lactating"},
	{models.PhaseDry, "🏜 Dry"},
	{models.PhaseEstrus, "🔥 Estrus"},
	{models.PhasePregnant, "🤰 Pregnant"},
	{models.PhasePostpartum, "👶 Postpartum"},
}

// PhaseKeyboard lists lifecycle phases. command is "phase" during the
// add flow and "setphase" when changing an existing animal, where the
// extra token pins down which one.
func PhaseKeyboard(command string, extra ...string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, p := range phaseLabels {
		parts := append([]string{"animal", command}, extra...)
		parts = append(parts, p.Phase)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(p.Label, Callback(parts...)))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("animal", "cancel")),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func EventTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💉 Insemination", Callback("breed", "type", models.EventInsemination)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🐂 Natural mating", Callback("breed", "type", models.EventNaturalMating)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩺 Pregnancy check", Callback("breed", "type", models.EventPregnancyCheck)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("breed", "cancel")),
		),
	)
}

func FinanceKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📉 Expense", Callback("fin", "kind", models.FinanceExpense)),
			tgbotapi.NewInlineKeyboardButtonData("📈 Income", Callback("fin", "kind", models.FinanceIncome)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("fin", "cancel")),
		),
	)
}

// InviteRoleKeyboard offers the roles an invitation may grant. Owner is
// deliberately absent.
func InviteRoleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧑‍🌾 Manager", Callback("role", "invrole", models.RoleManager)),
			tgbotapi.NewInlineKeyboardButtonData("👷 Worker", Callback("role", "invrole", models.RoleWorker)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👀 Viewer", Callback("role", "invrole", models.RoleViewer)),
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("role", "cancel")),
		),
	)
}

func MemberRoleKeyboard(memberID uint) tgbotapi.InlineKeyboardMarkup {
	id := fmt.Sprintf("%d", memberID)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧑‍🌾 Manager", Callback("role", "setrole", id, models.RoleManager)),
			tgbotapi.NewInlineKeyboardButtonData("👷 Worker", Callback("role", "setrole", id, models.RoleWorker)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👀 Viewer", Callback("role", "setrole", id, models.RoleViewer)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Remove", Callback("role", "remove", id)),
		),
	)
}

func PremiumPlanKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐️ Monthly", Callback("prof", "plan", models.PlanMonthly)),
			tgbotapi.NewInlineKeyboardButtonData("🌟 Yearly", Callback("prof", "plan", models.PlanYearly)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnCancel, Callback("prof", "cancel")),
		),
	)
}

// MainMenuKeyboard is the persistent reply keyboard.
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAnimals),
			tgbotapi.NewKeyboardButton(BtnMilk),
			tgbotapi.NewKeyboardButton(BtnBreeding),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnInventory),
			tgbotapi.NewKeyboardButton(BtnFeed),
			tgbotapi.NewKeyboardButton(BtnFinance),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnProfile),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
