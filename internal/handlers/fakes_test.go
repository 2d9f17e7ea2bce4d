package handlers

import (
	"time"

	"github.com/aminrz/farm_bot/internal/config"
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/repositories"
	"github.com/aminrz/farm_bot/internal/session"
	apperrors "github.com/aminrz/farm_bot/pkg/errors"
)

// memStore is an in-memory implementation of every store contract,
// mirroring the repository semantics closely enough for flow tests.
type memStore struct {
	nextID uint

	users    []*models.User
	farms    []*models.Farm
	members  []*models.FarmMember
	animals  []*models.Animal
	milk     []*models.MilkRecord
	breeding []*models.BreedingEvent
	items    []*models.InventoryItem
	formulas []*models.FeedFormula
	finance  []*models.FinanceRecord
	invites  []*models.InviteCode
	payments []*models.Payment
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func notFound() error {
	return apperrors.New(apperrors.ErrCodeNotFound, "not found")
}

// UserStore

func (s *memStore) CreateUser(user *models.User) error {
	user.ID = s.id()
	user.CreatedAt = time.Now()
	s.users = append(s.users, user)
	return nil
}

func (s *memStore) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	for _, u := range s.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) GetUserByID(id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) UpdateUser(user *models.User) error { return nil }

func (s *memStore) UpdateLastActivity(userID uint) error { return nil }

func (s *memStore) SetPremium(userID uint, until time.Time) error {
	u, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	u.Premium = true
	u.PremiumUntil = until
	return nil
}

// FarmStore

func (s *memStore) CreateFarm(farm *models.Farm) error {
	farm.ID = s.id()
	s.farms = append(s.farms, farm)
	s.members = append(s.members, &models.FarmMember{
		ID:     s.id(),
		FarmID: farm.ID,
		UserID: farm.OwnerID,
		Role:   models.RoleOwner,
	})
	return nil
}

func (s *memStore) GetFarmByID(id uint) (*models.Farm, error) {
	for _, f := range s.farms {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) GetFarmByOwner(userID uint) (*models.Farm, error) {
	for _, f := range s.farms {
		if f.OwnerID == userID {
			return f, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) GetMembership(userID uint) (*models.FarmMember, error) {
	for _, m := range s.members {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) GetMemberByID(farmID, memberID uint) (*models.FarmMember, error) {
	for _, m := range s.members {
		if m.ID == memberID && m.FarmID == farmID {
			return m, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) ListMembers(farmID uint) ([]repositories.MemberInfo, error) {
	var infos []repositories.MemberInfo
	for _, m := range s.members {
		if m.FarmID != farmID {
			continue
		}
		name := ""
		if u, err := s.GetUserByID(m.UserID); err == nil {
			name = u.FullName
		}
		infos = append(infos, repositories.MemberInfo{
			MemberID: m.ID,
			UserID:   m.UserID,
			FullName: name,
			Role:     m.Role,
		})
	}
	return infos, nil
}

func (s *memStore) AddMember(member *models.FarmMember) error {
	member.ID = s.id()
	s.members = append(s.members, member)
	return nil
}

func (s *memStore) UpdateMemberRole(memberID uint, role string) error {
	for _, m := range s.members {
		if m.ID == memberID {
			m.Role = role
			return nil
		}
	}
	return notFound()
}

func (s *memStore) RemoveMember(memberID uint) error {
	for i, m := range s.members {
		if m.ID == memberID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// AnimalStore

func (s *memStore) CreateAnimal(animal *models.Animal) error {
	animal.ID = s.id()
	animal.Active = true
	s.animals = append(s.animals, animal)
	return nil
}

func (s *memStore) GetAnimalByID(farmID, animalID uint) (*models.Animal, error) {
	for _, a := range s.animals {
		if a.ID == animalID && a.FarmID == farmID && a.Active {
			return a, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) listAnimals(farmID uint, offset, limit int, keep func(*models.Animal) bool) ([]models.Animal, int64, error) {
	var all []models.Animal
	for _, a := range s.animals {
		if a.FarmID == farmID && a.Active && keep(a) {
			all = append(all, *a)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memStore) ListAnimals(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	return s.listAnimals(farmID, offset, limit, func(*models.Animal) bool { return true })
}

func (s *memStore) ListMilkable(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	return s.listAnimals(farmID, offset, limit, (*models.Animal).MilkEligible)
}

func (s *memStore) ListBreedingEligible(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	return s.listAnimals(farmID, offset, limit, (*models.Animal).BreedingEligible)
}

func (s *memStore) ListSires(farmID uint, offset, limit int) ([]models.Animal, int64, error) {
	return s.listAnimals(farmID, offset, limit, func(a *models.Animal) bool {
		return a.Gender == models.GenderMale
	})
}

func (s *memStore) UpdateAnimal(animal *models.Animal) error { return nil }

func (s *memStore) UpdatePhase(farmID, animalID uint, phase string) error {
	a, err := s.GetAnimalByID(farmID, animalID)
	if err != nil {
		return err
	}
	a.Phase = phase
	return nil
}

func (s *memStore) DeleteAnimal(farmID, animalID uint) error {
	a, err := s.GetAnimalByID(farmID, animalID)
	if err != nil {
		return err
	}
	a.Active = false
	return nil
}

// MilkStore

func (s *memStore) CreateRecord(record *models.MilkRecord) error {
	record.ID = s.id()
	s.milk = append(s.milk, record)
	return nil
}

func (s *memStore) TotalForDate(farmID uint, date time.Time) (float64, error) {
	var total float64
	for _, r := range s.milk {
		if r.FarmID == farmID && r.RecordDate.Equal(date) {
			total += r.Quantity
		}
	}
	return total, nil
}

func (s *memStore) ListForAnimal(farmID, animalID uint, limit int) ([]models.MilkRecord, error) {
	var out []models.MilkRecord
	for _, r := range s.milk {
		if r.FarmID == farmID && r.AnimalID == animalID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) ListForRange(farmID uint, from, to time.Time) ([]models.MilkRecord, error) {
	var out []models.MilkRecord
	for _, r := range s.milk {
		if r.FarmID == farmID && !r.RecordDate.Before(from) && r.RecordDate.Before(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// BreedingStore

func (s *memStore) CreateEvent(event *models.BreedingEvent) error {
	event.ID = s.id()
	s.breeding = append(s.breeding, event)
	return nil
}

func (s *memStore) ListRecent(farmID uint, limit int) ([]models.BreedingEvent, error) {
	var out []models.BreedingEvent
	for i := len(s.breeding) - 1; i >= 0 && len(out) < limit; i-- {
		if s.breeding[i].FarmID == farmID {
			out = append(out, *s.breeding[i])
		}
	}
	return out, nil
}

func (s *memStore) ListForAnimal2(farmID, animalID uint) ([]models.BreedingEvent, error) {
	var out []models.BreedingEvent
	for _, e := range s.breeding {
		if e.FarmID == farmID && e.AnimalID == animalID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// InventoryStore

func (s *memStore) CreateItem(item *models.InventoryItem) error {
	item.ID = s.id()
	s.items = append(s.items, item)
	return nil
}

func (s *memStore) GetItemByID(farmID, itemID uint) (*models.InventoryItem, error) {
	for _, i := range s.items {
		if i.ID == itemID && i.FarmID == farmID {
			return i, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) ListItems(farmID uint, offset, limit int) ([]models.InventoryItem, int64, error) {
	var all []models.InventoryItem
	for _, i := range s.items {
		if i.FarmID == farmID {
			all = append(all, *i)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memStore) UpdateQuantity(farmID, itemID uint, quantity float64) error {
	item, err := s.GetItemByID(farmID, itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	return nil
}

func (s *memStore) DeleteItem(farmID, itemID uint) error {
	for i, it := range s.items {
		if it.ID == itemID && it.FarmID == farmID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// FeedStore

func (s *memStore) CreateFormula(formula *models.FeedFormula) error {
	formula.ID = s.id()
	s.formulas = append(s.formulas, formula)
	return nil
}

func (s *memStore) GetFormulaByID(farmID, formulaID uint) (*models.FeedFormula, error) {
	for _, f := range s.formulas {
		if f.ID == formulaID && f.FarmID == farmID {
			return f, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) ListFormulas(farmID uint, offset, limit int) ([]models.FeedFormula, int64, error) {
	var all []models.FeedFormula
	for _, f := range s.formulas {
		if f.FarmID == farmID {
			all = append(all, *f)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memStore) DeleteFormula(farmID, formulaID uint) error {
	for i, f := range s.formulas {
		if f.ID == formulaID && f.FarmID == farmID {
			s.formulas = append(s.formulas[:i], s.formulas[i+1:]...)
			return nil
		}
	}
	return notFound()
}

// FinanceStore

func (s *memStore) CreateFinanceRecord(record *models.FinanceRecord) error {
	record.ID = s.id()
	s.finance = append(s.finance, record)
	return nil
}

func (s *memStore) SummaryForMonth(farmID uint, year int, month time.Month) (*repositories.MonthlySummary, error) {
	summary := &repositories.MonthlySummary{}
	for _, r := range s.finance {
		if r.FarmID != farmID || r.RecordDate.Year() != year || r.RecordDate.Month() != month {
			continue
		}
		if r.Kind == models.FinanceIncome {
			summary.Income += r.Amount
		} else {
			summary.Expense += r.Amount
		}
	}
	return summary, nil
}

func (s *memStore) ListFinanceForRange(farmID uint, from, to time.Time) ([]models.FinanceRecord, error) {
	var out []models.FinanceRecord
	for _, r := range s.finance {
		if r.FarmID == farmID && !r.RecordDate.Before(from) && r.RecordDate.Before(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// InviteStore

func (s *memStore) CreateInvite(invite *models.InviteCode) error {
	invite.ID = s.id()
	s.invites = append(s.invites, invite)
	return nil
}

func (s *memStore) GetByCode(code string) (*models.InviteCode, error) {
	for _, c := range s.invites {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) Revoke(code string, farmID uint) error {
	now := time.Now().UTC()
	for _, c := range s.invites {
		if c.Code == code && c.FarmID == farmID && c.Usable(now) {
			c.ExpiresAt = now
			return nil
		}
	}
	return notFound()
}

func (s *memStore) Redeem(invite *models.InviteCode, userID uint) (*models.FarmMember, error) {
	now := time.Now().UTC()
	if !invite.Usable(now) {
		return nil, apperrors.New(apperrors.ErrCodeExpired, "invite already used or expired")
	}
	invite.UsedBy = &userID
	invite.UsedAt = &now
	member := &models.FarmMember{FarmID: invite.FarmID, UserID: userID, Role: invite.Role}
	if err := s.AddMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// PaymentStore

func (s *memStore) CreatePayment(payment *models.Payment) error {
	payment.ID = s.id()
	s.payments = append(s.payments, payment)
	return nil
}

func (s *memStore) GetAwaitingByUser(userID uint) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.UserID == userID && p.Status == models.PaymentAwaiting {
			return p, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) GetPaymentByID(id uint) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, notFound()
}

func (s *memStore) UpdateStatus(paymentID uint, status string) error {
	p, err := s.GetPaymentByID(paymentID)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

// financeAdapter and milkAdapter split the shared CreateRecord name
// between the two store contracts.
type milkAdapter struct{ *memStore }

type financeAdapter struct{ *memStore }

func (a financeAdapter) CreateRecord(record *models.FinanceRecord) error {
	return a.CreateFinanceRecord(record)
}

func (a financeAdapter) ListForRange(farmID uint, from, to time.Time) ([]models.FinanceRecord, error) {
	return a.ListFinanceForRange(farmID, from, to)
}

type breedingAdapter struct{ *memStore }

func (a breedingAdapter) ListForAnimal(farmID, animalID uint) ([]models.BreedingEvent, error) {
	return a.ListForAnimal2(farmID, animalID)
}

// fakeBot records everything the handlers send.
type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard interface{}
}

type fakeBot struct {
	messages  []sentMessage
	photos    []sentMessage
	documents []string
	answers   []string
}

func (b *fakeBot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	b.messages = append(b.messages, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return len(b.messages)
}

func (b *fakeBot) SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int {
	b.photos = append(b.photos, sentMessage{ChatID: chatID, Text: caption, Keyboard: keyboard})
	return len(b.photos)
}

func (b *fakeBot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {}

func (b *fakeBot) DeleteMessage(chatID int64, messageID int) {}

func (b *fakeBot) SendDocument(chatID int64, filename string, data []byte, caption string) {
	b.documents = append(b.documents, filename)
}

func (b *fakeBot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	b.answers = append(b.answers, text)
}

func (b *fakeBot) Username() string { return "farm_test_bot" }

func (b *fakeBot) last() sentMessage {
	if len(b.messages) == 0 {
		return sentMessage{}
	}
	return b.messages[len(b.messages)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		PageSize:            5,
		MaxRedeemAttempts:   3,
		InviteCodeLength:    8,
		InviteTTLHours:      72,
		ProportionTolerance: 1.0,
		InviteSecret:        "test-secret",
		AdminTelegramID:     999,
	}
}

// newTestManager builds a manager over the in-memory store, seeded with
// one farm owned by Telegram user 100.
func newTestManager() (*HandlerManager, *memStore) {
	store := newMemStore()
	h := NewHandlerManager(
		testConfig(), nil, session.NewManager(),
		store, store, store, milkAdapter{store}, breedingAdapter{store},
		store, store, financeAdapter{store}, store, store,
	)

	owner := &models.User{TelegramID: 100, FullName: "Owner"}
	store.CreateUser(owner)
	store.CreateFarm(&models.Farm{Name: "Green Acres", OwnerID: owner.ID})
	return h, store
}

// seedMember registers a Telegram user as a farm member with the role.
func seedMember(store *memStore, telegramID int64, role string) *models.User {
	user := &models.User{TelegramID: telegramID, FullName: "Member"}
	store.CreateUser(user)
	store.members = append(store.members, &models.FarmMember{
		ID:     store.id(),
		FarmID: store.farms[0].ID,
		UserID: user.ID,
		Role:   role,
	})
	return user
}
