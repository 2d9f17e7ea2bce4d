package handlers

import (
	"time"

	"github.com/aminrz/farm_bot/internal/config"
	"github.com/aminrz/farm_bot/internal/models"
	"github.com/aminrz/farm_bot/internal/repositories"
	"github.com/aminrz/farm_bot/internal/session"
	"gorm.io/gorm"
)

// Store contracts satisfied by the repositories package. Handlers only
// see these, which keeps flow logic testable against in-memory fakes.

type UserStore interface {
	CreateUser(user *models.User) error
	GetUserByTelegramID(telegramID int64) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateLastActivity(userID uint) error
	SetPremium(userID uint, until time.Time) error
}

type FarmStore interface {
	CreateFarm(farm *models.Farm) error
	GetFarmByID(id uint) (*models.Farm, error)
	GetFarmByOwner(userID uint) (*models.Farm, error)
	GetMembership(userID uint) (*models.FarmMember, error)
	GetMemberByID(farmID, memberID uint) (*models.FarmMember, error)
	ListMembers(farmID uint) ([]repositories.MemberInfo, error)
	AddMember(member *models.FarmMember) error
	UpdateMemberRole(memberID uint, role string) error
	RemoveMember(memberID uint) error
}

type AnimalStore interface {
	CreateAnimal(animal *models.Animal) error
	GetAnimalByID(farmID, animalID uint) (*models.Animal, error)
	ListAnimals(farmID uint, offset, limit int) ([]models.Animal, int64, error)
	ListMilkable(farmID uint, offset, limit int) ([]models.Animal, int64, error)
	ListBreedingEligible(farmID uint, offset, limit int) ([]models.Animal, int64, error)
	ListSires(farmID uint, offset, limit int) ([]models.Animal, int64, error)
	UpdateAnimal(animal *models.Animal) error
	UpdatePhase(farmID, animalID uint, phase string) error
	DeleteAnimal(farmID, animalID uint) error
}

type MilkStore interface {
	CreateRecord(record *models.MilkRecord) error
	TotalForDate(farmID uint, date time.Time) (float64, error)
	ListForAnimal(farmID, animalID uint, limit int) ([]models.MilkRecord, error)
	ListForRange(farmID uint, from, to time.Time) ([]models.MilkRecord, error)
}

type BreedingStore interface {
	CreateEvent(event *models.BreedingEvent) error
	ListRecent(farmID uint, limit int) ([]models.BreedingEvent, error)
	ListForAnimal(farmID, animalID uint) ([]models.BreedingEvent, error)
}

type InventoryStore interface {
	CreateItem(item *models.InventoryItem) error
	GetItemByID(farmID, itemID uint) (*models.InventoryItem, error)
	ListItems(farmID uint, offset, limit int) ([]models.InventoryItem, int64, error)
	UpdateQuantity(farmID, itemID uint, quantity float64) error
	DeleteItem(farmID, itemID uint) error
}

type FeedStore interface {
	CreateFormula(formula *models.FeedFormula) error
	GetFormulaByID(farmID, formulaID uint) (*models.FeedFormula, error)
	ListFormulas(farmID uint, offset, limit int) ([]models.FeedFormula, int64, error)
	DeleteFormula(farmID, formulaID uint) error
}

type FinanceStore interface {
	CreateRecord(record *models.FinanceRecord) error
	SummaryForMonth(farmID uint, year int, month time.Month) (*repositories.MonthlySummary, error)
	ListForRange(farmID uint, from, to time.Time) ([]models.FinanceRecord, error)
}

type InviteStore interface {
	CreateInvite(invite *models.InviteCode) error
	GetByCode(code string) (*models.InviteCode, error)
	Revoke(code string, farmID uint) error
	Redeem(invite *models.InviteCode, userID uint) (*models.FarmMember, error)
}

type PaymentStore interface {
	CreatePayment(payment *models.Payment) error
	GetAwaitingByUser(userID uint) (*models.Payment, error)
	GetPaymentByID(id uint) (*models.Payment, error)
	UpdateStatus(paymentID uint, status string) error
}

type HandlerManager struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *session.Manager

	UserRepo      UserStore
	FarmRepo      FarmStore
	AnimalRepo    AnimalStore
	MilkRepo      MilkStore
	BreedingRepo  BreedingStore
	InventoryRepo InventoryStore
	FeedRepo      FeedStore
	FinanceRepo   FinanceStore
	InviteRepo    InviteStore
	PaymentRepo   PaymentStore
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	sessions *session.Manager,
	userRepo UserStore,
	farmRepo FarmStore,
	animalRepo AnimalStore,
	milkRepo MilkStore,
	breedingRepo BreedingStore,
	inventoryRepo InventoryStore,
	feedRepo FeedStore,
	financeRepo FinanceStore,
	inviteRepo InviteStore,
	paymentRepo PaymentStore,
) *HandlerManager {
	return &HandlerManager{
		Config:        cfg,
		DB:            db,
		Sessions:      sessions,
		UserRepo:      userRepo,
		FarmRepo:      farmRepo,
		AnimalRepo:    animalRepo,
		MilkRepo:      milkRepo,
		BreedingRepo:  breedingRepo,
		InventoryRepo: inventoryRepo,
		FeedRepo:      feedRepo,
		FinanceRepo:   financeRepo,
		InviteRepo:    inviteRepo,
		PaymentRepo:   paymentRepo,
	}
}

// HandleMenuButton routes a reply-keyboard press to its section. An
// active flow is abandoned before the section renders, so the cancel
// cannot wipe selection tokens the render just issued.
func (h *HandlerManager) HandleMenuButton(text string, userID int64, bot BotInterface) bool {
	if text != BtnCancel && h.Sessions.Get(userID).Active() {
		h.Sessions.Cancel(userID)
	}

	switch text {
	case BtnAnimals:
		h.ShowAnimalList(userID, 0, bot)
	case BtnMilk:
		h.ShowMilkMenu(userID, bot)
	case BtnBreeding:
		h.ShowBreedingMenu(userID, bot)
	case BtnInventory:
		h.ShowInventoryList(userID, 0, bot)
	case BtnFeed:
		h.ShowFeedList(userID, 0, bot)
	case BtnFinance:
		h.ShowFinanceMenu(userID, bot)
	case BtnProfile:
		h.ShowProfile(userID, bot)
	case BtnCancel:
		h.Sessions.Cancel(userID)
		bot.SendMessage(userID, MsgCancel, MainMenuKeyboard())
	default:
		return false
	}
	return true
}

// Bot interface to avoid circular dependency
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	DeleteMessage(chatID int64, messageID int)
	SendDocument(chatID int64, filename string, data []byte, caption string)
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
	Username() string
}
