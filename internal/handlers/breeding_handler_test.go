package handlers

import (
	"testing"

	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/pkg/utils"
)

func seedDam(store *memStore, name, phase string) *models.Animal {
	a := &models.Animal{Name: name, Gender: models.GenderFemale, Phase: phase, FarmID: store.farms[0].ID}
	store.CreateAnimal(a)
	return a
}

func seedSire(store *memStore, name string) *models.Animal {
	a := &models.Animal{Name: name, Gender: models.GenderMale, Phase: models.PhaseGrowing, FarmID: store.farms[0].ID}
	store.CreateAnimal(a)
	return a
}

func breedCallback(h *HandlerManager, userID int64, bot *fakeBot, command string, args ...string) {
	h.HandleBreedingCallback(cb(userID), command, args, bot)
}

func TestBreedRecordFullFlow(t *testing.T) {
	h, store := newTestManager()
	dam := seedDam(store, "Bella", models.PhaseEstrus)
	sire := seedSire(store, "Thor")
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)
	if sess := h.Sessions.Get(100); sess.Flow != FlowBreedRecord || sess.Step != StepBreedDam {
		t.Fatalf("flow = %q/%q, want %q/%q", sess.Flow, sess.Step, FlowBreedRecord, StepBreedDam)
	}

	breedCallback(h, 100, bot, "pick", "T0", "0")
	breedCallback(h, 100, bot, "type", models.EventInsemination)
	breedCallback(h, 100, bot, "sirepick", "T0", "0")
	breedCallback(h, 100, bot, "today")
	breedCallback(h, 100, bot, "skip")

	if len(store.breeding) != 1 {
		t.Fatalf("events = %d, want exactly 1", len(store.breeding))
	}
	ev := store.breeding[0]
	if ev.AnimalID != dam.ID {
		t.Errorf("dam = %d, want %d", ev.AnimalID, dam.ID)
	}
	if ev.EventType != models.EventInsemination {
		t.Errorf("type = %q, want insemination", ev.EventType)
	}
	if ev.SireID == nil || *ev.SireID != sire.ID {
		t.Errorf("sire = %v, want %d", ev.SireID, sire.ID)
	}
	if got, want := ev.EventDate.Format(utils.DateLayout), today().Format(utils.DateLayout); got != want {
		t.Errorf("date = %s, want %s", got, want)
	}
	if ev.Notes != "" {
		t.Errorf("notes = %q, want empty on skip", ev.Notes)
	}

	if h.Sessions.Get(100).Active() {
		t.Error("flow should be complete")
	}
	if len(h.Sessions.Get(100).Data) != 0 {
		t.Error("scratch state should be cleared after completion")
	}
}

func TestBreedRecordSkippedSireStaysNil(t *testing.T) {
	h, store := newTestManager()
	seedDam(store, "Bella", models.PhasePostpartum)
	seedSire(store, "Thor")
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)
	breedCallback(h, 100, bot, "pick", "T0", "0")
	breedCallback(h, 100, bot, "type", models.EventNaturalMating)
	breedCallback(h, 100, bot, "skip")
	breedCallback(h, 100, bot, "today")
	h.HandleBreedingInput(msg(100, "twins last time"), bot)

	if len(store.breeding) != 1 {
		t.Fatalf("events = %d, want 1", len(store.breeding))
	}
	ev := store.breeding[0]
	if ev.SireID != nil {
		t.Errorf("sire = %v, want nil when skipped", *ev.SireID)
	}
	if ev.Notes != "twins last time" {
		t.Errorf("notes = %q", ev.Notes)
	}
}

func TestBreedRecordTypedDashSkipsNotes(t *testing.T) {
	h, store := newTestManager()
	seedDam(store, "Bella", models.PhaseEstrus)
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)
	breedCallback(h, 100, bot, "pick", "T0", "0")
	breedCallback(h, 100, bot, "type", models.EventInsemination)
	breedCallback(h, 100, bot, "today")
	h.HandleBreedingInput(msg(100, "-"), bot)

	if len(store.breeding) != 1 {
		t.Fatalf("events = %d, want 1", len(store.breeding))
	}
	if store.breeding[0].Notes != "" {
		t.Errorf("notes = %q, want empty for a typed dash", store.breeding[0].Notes)
	}
}

func TestBreedRecordNoSiresAdvancesToDate(t *testing.T) {
	h, store := newTestManager()
	seedDam(store, "Bella", models.PhaseEstrus)
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)
	breedCallback(h, 100, bot, "pick", "T0", "0")
	breedCallback(h, 100, bot, "type", models.EventPregnancyCheck)

	if sess := h.Sessions.Get(100); sess.Step != StepBreedDate {
		t.Errorf("step = %q, want %q when the farm has no sires", sess.Step, StepBreedDate)
	}

	breedCallback(h, 100, bot, "today")
	breedCallback(h, 100, bot, "skip")
	if len(store.breeding) != 1 {
		t.Fatalf("events = %d, want 1", len(store.breeding))
	}
	if store.breeding[0].SireID != nil {
		t.Error("sire should stay nil without sires on the farm")
	}
}

func TestBreedRecordNoEligibleAnimals(t *testing.T) {
	h, store := newTestManager()
	// Lactating females and males are not breeding-eligible.
	seedDam(store, "Daisy", models.PhaseLactating)
	seedSire(store, "Thor")
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)

	if bot.last().Text != MsgBreedNoEligible {
		t.Errorf("message = %q, want %q", bot.last().Text, MsgBreedNoEligible)
	}
	if h.Sessions.Get(100).Active() {
		t.Error("flow should be cancelled with no eligible dams")
	}
}

func TestBreedStaleTokenRerenders(t *testing.T) {
	h, store := newTestManager()
	seedDam(store, "Bella", models.PhaseEstrus)
	bot := &fakeBot{}

	h.StartBreedRecord(100, bot)
	h.Sessions.ClearTokens(100)

	before := len(store.breeding)
	breedCallback(h, 100, bot, "pick", "T7", "0")

	if len(store.breeding) != before {
		t.Error("a stale token must not advance the flow")
	}
	if sess := h.Sessions.Get(100); sess.Step != StepBreedDam {
		t.Errorf("step = %q, want to stay at dam selection", sess.Step)
	}
	found := false
	for _, m := range bot.messages {
		if m.Text == MsgStaleListButtons {
			found = true
		}
	}
	if !found {
		t.Error("expected the stale-list warning before the fresh page")
	}
}
