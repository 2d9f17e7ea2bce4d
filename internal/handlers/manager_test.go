package handlers

import (
	"testing"

	"github.com/aminrz/farm_bot/internal/models"
)

func TestMenuButtonAbandonsFlowBeforeRender(t *testing.T) {
	h, store := newTestManager()
	store.CreateItem(&models.InventoryItem{FarmID: store.farms[0].ID, Name: "Hay", Quantity: 1, Unit: "bales"})
	bot := &fakeBot{}

	// A half-finished flow is abandoned by the menu press, and the
	// freshly rendered list's tokens must survive it: the first pick
	// resolves instead of taking the stale-token round trip.
	h.StartAnimalAdd(100, bot)
	if !h.HandleMenuButton(BtnInventory, 100, bot) {
		t.Fatal("the inventory button should be recognized")
	}

	if h.Sessions.Get(100).Active() {
		t.Error("the menu press should abandon the running flow")
	}

	invCallback(h, 100, bot, "pick", "T0", "0")
	for _, m := range bot.messages {
		if m.Text == MsgStaleListButtons {
			t.Fatal("tokens issued by the menu render must still resolve")
		}
	}
}

func TestMenuButtonUnknownText(t *testing.T) {
	h, _ := newTestManager()
	bot := &fakeBot{}

	if h.HandleMenuButton("what now", 100, bot) {
		t.Error("stray text is not a menu button")
	}
	if len(bot.messages) != 0 {
		t.Errorf("nothing should be sent for stray text, got %d messages", len(bot.messages))
	}
}

func TestMenuCancelButton(t *testing.T) {
	h, _ := newTestManager()
	bot := &fakeBot{}

	h.StartAnimalAdd(100, bot)
	if !h.HandleMenuButton(BtnCancel, 100, bot) {
		t.Fatal("cancel is a menu button")
	}
	if h.Sessions.Get(100).Active() {
		t.Error("cancel should clear the flow")
	}
	if bot.last().Text != MsgCancel {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgCancel)
	}
}
