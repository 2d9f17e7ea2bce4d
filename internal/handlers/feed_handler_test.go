package handlers

import (
	"fmt"
	"testing"
)

func feedCallback(h *HandlerManager, userID int64, bot *fakeBot, command string, args ...string) {
	h.HandleFeedCallback(cb(userID), command, args, bot)
}

func TestFeedCreateBalancedFormula(t *testing.T) {
	h, store := newTestManager()
	bot := &fakeBot{}

	h.StartFeedCreate(100, bot)
	h.HandleFeedInput(msg(100, "Winter mix"), bot)
	h.HandleFeedInput(msg(100, "corn 40"), bot)
	h.HandleFeedInput(msg(100, "alfalfa 37,5"), bot)
	h.HandleFeedInput(msg(100, "mineral premix 22.5"), bot)
	feedCallback(h, 100, bot, "done")

	if len(store.formulas) != 1 {
		t.Fatalf("formulas = %d, want 1", len(store.formulas))
	}
	f := store.formulas[0]
	if f.Name != "Winter mix" {
		t.Errorf("name = %q", f.Name)
	}
	if len(f.Components) != 3 {
		t.Fatalf("components = %d, want 3", len(f.Components))
	}
	if f.Components[1].Name != "alfalfa" || f.Components[1].Proportion != 37.5 {
		t.Errorf("component = %q %.1f, want alfalfa 37.5", f.Components[1].Name, f.Components[1].Proportion)
	}
	if f.Components[2].Name != "mineral premix" {
		t.Errorf("multi-word component name = %q", f.Components[2].Name)
	}
	if h.Sessions.Get(100).Active() {
		t.Error("flow should be complete")
	}
}

func TestFeedCreateToleranceBand(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		saved bool
	}{
		{"exact hundred", []string{"corn 60", "hay 40"}, true},
		{"just inside tolerance", []string{"corn 60", "hay 40,9"}, true},
		{"low edge of tolerance", []string{"corn 60", "hay 39.1"}, true},
		{"over tolerance", []string{"corn 60", "hay 41.1"}, false},
		{"under tolerance", []string{"corn 60", "hay 38.5"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestManager()
			bot := &fakeBot{}

			h.StartFeedCreate(100, bot)
			h.HandleFeedInput(msg(100, "Mix"), bot)
			for _, p := range tt.parts {
				h.HandleFeedInput(msg(100, p), bot)
			}
			feedCallback(h, 100, bot, "done")

			if saved := len(store.formulas) == 1; saved != tt.saved {
				t.Errorf("saved = %v, want %v", saved, tt.saved)
			}
			if !tt.saved {
				// An off-balance formula stays editable instead of dying.
				if sess := h.Sessions.Get(100); sess.Step != StepFeedComponents {
					t.Errorf("step = %q, want to stay on components", sess.Step)
				}
			}
		})
	}
}

func TestFeedCreateNeedsComponents(t *testing.T) {
	h, store := newTestManager()
	bot := &fakeBot{}

	h.StartFeedCreate(100, bot)
	h.HandleFeedInput(msg(100, "Empty mix"), bot)
	feedCallback(h, 100, bot, "done")

	if len(store.formulas) != 0 {
		t.Error("a formula without components must not be saved")
	}
	if bot.last().Text != MsgFeedNoComponents {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgFeedNoComponents)
	}
}

func TestFeedRejectsUnparsableComponent(t *testing.T) {
	h, _ := newTestManager()
	bot := &fakeBot{}

	h.StartFeedCreate(100, bot)
	h.HandleFeedInput(msg(100, "Mix"), bot)
	h.HandleFeedInput(msg(100, "just corn"), bot)

	if bot.last().Text != MsgFeedInvalidComp {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgFeedInvalidComp)
	}
	h.HandleFeedInput(msg(100, "corn 100"), bot)
	want := fmt.Sprintf(MsgFeedComponentAdded, "corn", 100.0, 100.0)
	if bot.last().Text != want {
		t.Errorf("message = %q, want %q", bot.last().Text, want)
	}
}
