package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/aminrz/farm_bot/internal/config"
	"github.com/aminrz/farm_bot/internal/handlers"
	"github.com/aminrz/farm_bot/internal/middleware"
	"github.com/aminrz/farm_bot/internal/repositories"
	"github.com/aminrz/farm_bot/internal/session"
	"github.com/aminrz/farm_bot/pkg/logger"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	db       *gorm.DB
	handlers *handlers.HandlerManager
	sessions *session.Manager
	limiter  *middleware.RateLimiter

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	sessions := session.NewManager()

	userRepo := repositories.NewUserRepository(db)
	farmRepo := repositories.NewFarmRepository(db)
	animalRepo := repositories.NewAnimalRepository(db)
	milkRepo := repositories.NewMilkRepository(db)
	breedingRepo := repositories.NewBreedingRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	feedRepo := repositories.NewFeedRepository(db)
	financeRepo := repositories.NewFinanceRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	handlerMgr := handlers.NewHandlerManager(cfg, db, sessions,
		userRepo, farmRepo, animalRepo, milkRepo, breedingRepo,
		inventoryRepo, feedRepo, financeRepo, inviteRepo, paymentRepo)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		handlers:    handlerMgr,
		sessions:    sessions,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		workerChans: make([]chan tgbotapi.Update, 10), // 10 workers
	}

	for i := 0; i < 10; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			var userID int64
			if update.Message != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				// Hashed dispatch to workers so one user's updates stay ordered
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limited", "user_id", userID)
		return
	}

	logger.Debug("Received message",
		"user_id", userID,
		"text", message.Text,
		"has_photo", message.Photo != nil,
	)

	if user, err := b.handlers.UserRepo.GetUserByTelegramID(userID); err == nil {
		b.handlers.UserRepo.UpdateLastActivity(user.ID)
	}

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	if b.handleButtonPress(message) {
		return
	}

	sess := b.sessions.Get(userID)
	if message.Photo != nil && sess.Flow == handlers.FlowPayment {
		b.handlers.HandlePaymentPhoto(message, b)
		return
	}
	if message.Text == "" {
		return
	}

	switch sess.Flow {
	case handlers.FlowFarmCreate:
		b.handlers.HandleFarmInput(message, b)
	case handlers.FlowAsk:
		b.handlers.HandleAskInput(message, b)
	case handlers.FlowAnimalAdd:
		b.handlers.HandleAnimalInput(message, b)
	case handlers.FlowMilkRecord:
		b.handlers.HandleMilkInput(message, b)
	case handlers.FlowBreedRecord:
		b.handlers.HandleBreedingInput(message, b)
	case handlers.FlowInvAdd, handlers.FlowInvAdjust:
		b.handlers.HandleInventoryInput(message, b)
	case handlers.FlowFeedCreate:
		b.handlers.HandleFeedInput(message, b)
	case handlers.FlowFinRecord:
		b.handlers.HandleFinanceInput(message, b)
	case handlers.FlowRedeem, handlers.FlowRevoke:
		b.handlers.HandleRolesInput(message, b)
	case handlers.FlowPayment:
		b.sendMessage(userID, handlers.MsgReceiptWait, nil)
	default:
		b.sendMessage(userID, handlers.MsgMainMenu, handlers.MainMenuKeyboard())
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	switch message.Command() {
	case "start":
		b.handlers.HandleStart(userID, message.From, message.CommandArguments(), b)
	case "help":
		b.sendMessage(userID, handlers.MsgHelp, nil)
	case "roles":
		b.handlers.ShowRolesMenu(userID, b)
	case "ask":
		b.handlers.StartAsk(userID, b)
	case "cancel":
		if b.sessions.Get(userID).Active() {
			b.sessions.Cancel(userID)
			b.sendMessage(userID, handlers.MsgCancel, handlers.MainMenuKeyboard())
		} else {
			b.sendMessage(userID, handlers.MsgNothingActive, handlers.MainMenuKeyboard())
		}
	default:
		b.sendMessage(userID, handlers.MsgHelp, nil)
	}
}

// handleButtonPress maps main-menu reply buttons to their sections.
// Returns false for anything that isn't a known button.
func (b *Bot) handleButtonPress(message *tgbotapi.Message) bool {
	return b.handlers.HandleMenuButton(message.Text, message.From.ID, b)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID

	if !b.limiter.Allow(userID) {
		b.AnswerCallbackQuery(query.ID, "Too many requests, slow down.", false)
		return
	}

	// Acknowledge so the button spinner stops.
	callback := tgbotapi.NewCallback(query.ID, "")
	b.api.Request(callback)

	logger.Debug("Callback query", "data", query.Data, "user_id", userID)

	// Payloads are "<domain>:<command>:<args...>" with "-" for absent.
	parts := strings.SplitN(query.Data, ":", 3)
	if len(parts) < 2 {
		return
	}
	domain, command := parts[0], parts[1]
	var args []string
	if len(parts) == 3 {
		args = strings.Split(parts[2], ":")
	}

	switch domain {
	case "farm":
		b.handlers.HandleFarmCallback(query, command, args, b)
	case "animal":
		b.handlers.HandleAnimalCallback(query, command, args, b)
	case "milk":
		b.handlers.HandleMilkCallback(query, command, args, b)
	case "breed":
		b.handlers.HandleBreedingCallback(query, command, args, b)
	case "inv":
		b.handlers.HandleInventoryCallback(query, command, args, b)
	case "feed":
		b.handlers.HandleFeedCallback(query, command, args, b)
	case "fin":
		b.handlers.HandleFinanceCallback(query, command, args, b)
	case "role":
		b.handlers.HandleRolesCallback(query, command, args, b)
	case "prof":
		b.handlers.HandleProfileCallback(query, command, args, b)
	default:
		logger.Warn("Unknown callback domain", "domain", domain, "user_id", userID)
	}
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

func (b *Bot) SendPhoto(chatID int64, photoID string, caption string, keyboard interface{}) int {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photoID))
	photo.Caption = caption

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		photo.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		photo.ReplyMarkup = kb
	}

	sentMsg, err := b.api.Send(photo)
	if err != nil {
		logger.Error("Failed to send photo", "error", err, "chat_id", chatID)
		return 0
	}
	return sentMsg.MessageID
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)

	if keyboard != nil {
		if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = &kb
		}
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	deleteMsg := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := b.api.Request(deleteMsg); err != nil {
		logger.Error("Failed to delete message", "chat_id", chatID, "msg_id", messageID, "error", err)
	}
}

func (b *Bot) SendDocument(chatID int64, filename string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption

	if _, err := b.api.Send(doc); err != nil {
		logger.Error("Failed to send document", "error", err, "chat_id", chatID, "file", filename)
	}
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) Username() string {
	return b.api.Self.UserName
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}
