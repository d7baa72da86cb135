package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"coffeeshop/config"
	"coffeeshop/lang"
	"coffeeshop/models"
	"coffeeshop/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// CustomerStore is what the bot needs from the customers table.
type CustomerStore interface {
	services.CustomerDirectory
	UpsertTelegramCustomer(ctx context.Context, tgUserID int64, name, phone string, role models.Role) (*models.Customer, error)
	SetCustomerLanguage(ctx context.Context, customerID int64, language string) error
}

type OrderHistory interface {
	ListCustomerOrders(ctx context.Context, customerID int64, limit int) ([]models.Order, error)
	GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error)
}

type PointsReader interface {
	Balance(ctx context.Context, customerID int64) (int64, error)
	History(ctx context.Context, customerID int64, limit int) ([]models.LoyaltyTransaction, error)
}

type StockEditor interface {
	SetOutOfStock(ctx context.Context, id string, out bool) error
}

type MessageRecorder interface {
	SaveOutboundMessage(ctx context.Context, chatID int64, content string, meta map[string]interface{}) error
}

// Deps are the services the bot talks to. Invalidate, when set, drops cached menu data after a stock change.
type Deps struct {
	Menu       services.MenuCatalog
	Stock      StockEditor
	Invalidate func()
	Customers  CustomerStore
	Orders     OrderHistory
	Points     PointsReader
	Messages   MessageRecorder
	Sessions   *services.Sessions
	Pipeline   *services.OrderPipeline
	Favorites  *services.Favorites
}

type Bot struct {
	api  *tgbotapi.BotAPI
	cfg  *config.Config
	deps Deps
	log  zerolog.Logger

	userLangMu sync.RWMutex
	userLang   map[int64]string
}

func New(cfg *config.Config, deps Deps, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	log = log.With().Str("component", "bot").Logger()
	log.Info().Str("username", api.Self.UserName).Msg("authorized")
	return &Bot{
		api:      api,
		cfg:      cfg,
		deps:     deps,
		log:      log,
		userLang: make(map[int64]string),
	}, nil
}

// Start polls updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start"},
		tgbotapi.BotCommand{Command: "menu", Description: "Menu"},
		tgbotapi.BotCommand{Command: "cart", Description: "Cart"},
		tgbotapi.BotCommand{Command: "favorites", Description: "Favorites"},
		tgbotapi.BotCommand{Command: "points", Description: "Loyalty points"},
		tgbotapi.BotCommand{Command: "orders", Description: "Recent orders"},
		tgbotapi.BotCommand{Command: "signin", Description: "Sign in with phone"},
		tgbotapi.BotCommand{Command: "language", Description: "Language"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Warn().Err(err).Msg("set commands")
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("update handler panicked")
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.Contact != nil {
		b.handleContact(ctx, msg)
		return
	}
	if !msg.IsCommand() {
		return
	}
	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, chatID, userID)
	case "menu":
		b.sendCategories(chatID, userID)
	case "cart":
		b.sendCart(chatID, userID)
	case "favorites":
		b.sendFavorites(ctx, chatID, userID)
	case "points":
		b.handlePoints(ctx, chatID, userID)
	case "orders":
		b.handleOrders(ctx, chatID, userID)
	case "signin":
		b.sendSignInPrompt(chatID, userID)
	case "language":
		b.sendLanguageChoice(chatID)
	case "note":
		b.handleNote(chatID, userID, args)
	case "stats":
		b.handleStats(ctx, chatID, userID, args)
	case "soldout":
		b.handleStock(ctx, chatID, userID, args, true)
	case "instock":
		b.handleStock(ctx, chatID, userID, args, false)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	userID := cq.From.ID
	action, arg := parseCallback(cq.Data)

	switch action {
	case "lang":
		b.answer(cq.ID, "")
		b.handleLanguage(ctx, chatID, userID, arg)
	case services.CallbackMenu:
		b.answer(cq.ID, "")
		b.sendCategories(chatID, userID)
	case "cat":
		b.answer(cq.ID, "")
		b.sendCategory(ctx, chatID, userID, arg)
	case "add":
		b.answer(cq.ID, b.handleAdd(ctx, userID, arg))
	case "fav":
		b.answer(cq.ID, b.handleFavorite(ctx, chatID, userID, arg))
	case "cart":
		b.answer(cq.ID, "")
		b.sendCart(chatID, userID)
	case "favorites":
		b.answer(cq.ID, "")
		b.sendFavorites(ctx, chatID, userID)
	case trimColon(services.CallbackInc), trimColon(services.CallbackDec), trimColon(services.CallbackRemove), services.CallbackClear:
		b.answer(cq.ID, "")
		b.handleCartEdit(chatID, messageID, userID, action, arg)
	case services.CallbackCheckout:
		b.answer(cq.ID, "")
		b.handleCheckout(ctx, chatID, userID)
	case "table":
		b.answer(cq.ID, "")
		b.handleTable(ctx, chatID, userID, arg)
	default:
		b.answer(cq.ID, "")
	}
}

// parseCallback splits "action:arg" callback data. Data without a colon is a bare action.
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

func trimColon(prefix string) string {
	return strings.TrimSuffix(prefix, ":")
}

func sessionKey(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

func (b *Bot) session(userID int64) *services.Session {
	return b.deps.Sessions.Get(sessionKey(userID))
}

// customer resolves the signed-in customer of a telegram user; nil means anonymous.
func (b *Bot) customer(ctx context.Context, userID int64) *models.Customer {
	c, err := b.deps.Customers.GetCustomerByTelegram(ctx, userID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			b.log.Error().Err(err).Int64("user_id", userID).Msg("lookup customer")
		}
		return nil
	}
	return c
}

func (b *Bot) getLang(userID int64) string {
	b.userLangMu.RLock()
	defer b.userLangMu.RUnlock()
	if l, ok := b.userLang[userID]; ok {
		return l
	}
	return lang.Default
}

func (b *Bot) setLang(userID int64, code string) {
	b.userLangMu.Lock()
	b.userLang[userID] = code
	b.userLangMu.Unlock()
}

func (b *Bot) hasLang(userID int64) bool {
	b.userLangMu.RLock()
	defer b.userLangMu.RUnlock()
	_, ok := b.userLang[userID]
	return ok
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send")
	}
}

func (b *Bot) sendLang(chatID, userID int64, key string, args ...interface{}) {
	b.send(chatID, lang.T(b.getLang(userID), key, args...))
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send")
	}
	return sent, err
}

// sendCard sends a card; when messageID is non-zero the existing message is edited in place.
func (b *Bot) sendCard(chatID int64, messageID int, content services.CardContent) {
	markup := cardMarkup(content)
	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, content.Text)
		if markup != nil {
			edit.ReplyMarkup = markup
		}
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	if markup != nil {
		b.sendWithMarkup(chatID, content.Text, *markup)
		return
	}
	b.send(chatID, content.Text)
}

func (b *Bot) answer(callbackQueryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackQueryID, text)); err != nil {
		b.log.Debug().Err(err).Msg("answer callback")
	}
}

func cardMarkup(content services.CardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(content.Buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(content.Buttons))
	for _, row := range content.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
			}
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
