package bot

import (
	"context"
	"fmt"
	"strings"

	"coffeeshop/config"
	"coffeeshop/lang"
	"coffeeshop/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) sendSignInPrompt(chatID, userID int64) {
	l := b.getLang(userID)
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(lang.T(l, "btn_share_phone")),
		),
	)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	b.sendWithMarkup(chatID, lang.T(l, "sign_in_prompt"), kb)
}

// roleFor is the role a telegram user gets on sign-in.
func roleFor(cfg config.TelegramConfig, userID int64) models.Role {
	if cfg.SuperadminID != 0 && userID == cfg.SuperadminID {
		return models.RoleSuperadmin
	}
	for _, id := range cfg.AdminIDs {
		if id == userID {
			return models.RoleAdmin
		}
	}
	return models.RoleCustomer
}

func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	// only the user's own contact signs them in
	if msg.Contact.UserID != userID {
		b.sendSignInPrompt(chatID, userID)
		return
	}
	name := strings.TrimSpace(msg.Contact.FirstName + " " + msg.Contact.LastName)
	c, err := b.deps.Customers.UpsertTelegramCustomer(ctx, userID, name, msg.Contact.PhoneNumber, roleFor(b.cfg.Telegram, userID))
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Msg("sign in")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	if c.Language == "" && b.hasLang(userID) {
		if err := b.deps.Customers.SetCustomerLanguage(ctx, c.ID, b.getLang(userID)); err != nil {
			b.log.Warn().Err(err).Int64("customer_id", c.ID).Msg("save language")
		}
	}
	b.log.Info().Int64("customer_id", c.ID).Str("role", string(c.Role)).Msg("customer signed in")
	// reload favorites from the store on next use
	b.deps.Favorites.Forget(c.ID)

	l := b.getLang(userID)
	text := lang.T(l, "signed_in", c.Name)
	if _, err := b.sendWithMarkup(chatID, text, tgbotapi.NewRemoveKeyboard(true)); err == nil {
		b.sendWelcome(chatID, userID)
	}
}

func (b *Bot) handlePoints(ctx context.Context, chatID, userID int64) {
	c := b.customer(ctx, userID)
	if c == nil {
		b.sendSignInPrompt(chatID, userID)
		return
	}
	pts, err := b.deps.Points.Balance(ctx, c.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("customer_id", c.ID).Msg("points balance")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	l := b.getLang(userID)
	text := lang.T(l, "points_balance", pts)
	hist, err := b.deps.Points.History(ctx, c.ID, 5)
	if err != nil {
		b.log.Warn().Err(err).Int64("customer_id", c.ID).Msg("points history")
	}
	if len(hist) > 0 {
		text += "\n\n" + lang.T(l, "points_history")
		for _, t := range hist {
			text += fmt.Sprintf("\n%+d  %s  %s", t.Points, t.CreatedAt.Format("2006-01-02"), t.Description)
		}
	}
	b.send(chatID, text)
}

func (b *Bot) handleOrders(ctx context.Context, chatID, userID int64) {
	c := b.customer(ctx, userID)
	if c == nil {
		b.sendSignInPrompt(chatID, userID)
		return
	}
	l := b.getLang(userID)
	orders, err := b.deps.Orders.ListCustomerOrders(ctx, c.ID, 10)
	if err != nil {
		b.log.Error().Err(err).Int64("customer_id", c.ID).Msg("list orders")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	if len(orders) == 0 {
		b.sendLang(chatID, userID, "orders_empty")
		return
	}
	text := lang.T(l, "orders_title") + "\n\n"
	for _, o := range orders {
		text += fmt.Sprintf("%s — %s — %s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Total.StringFixed(2))
	}
	b.send(chatID, text)
}
