package bot

import (
	"context"
	"errors"
	"fmt"

	"coffeeshop/lang"
	"coffeeshop/models"
	"coffeeshop/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	if !b.hasLang(userID) {
		if c := b.customer(ctx, userID); c != nil && lang.Supported(c.Language) {
			b.setLang(userID, c.Language)
		} else {
			b.sendLanguageChoice(chatID)
			return
		}
	}
	b.sendWelcome(chatID, userID)
}

func (b *Bot) sendWelcome(chatID, userID int64) {
	l := b.getLang(userID)
	b.sendWithMarkup(chatID, lang.T(l, "welcome"), mainKeyboard(l))
}

func mainKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_menu"), services.CallbackMenu),
			tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_cart"), "cart"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_favorites"), "favorites"),
		),
	)
}

func (b *Bot) sendLanguageChoice(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:"+lang.En),
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O'zbekcha", "lang:"+lang.Uz),
		),
	)
	b.sendWithMarkup(chatID, lang.T(lang.Default, "choose_lang"), kb)
}

func (b *Bot) handleLanguage(ctx context.Context, chatID, userID int64, code string) {
	if !lang.Supported(code) {
		return
	}
	b.setLang(userID, code)
	if c := b.customer(ctx, userID); c != nil {
		if err := b.deps.Customers.SetCustomerLanguage(ctx, c.ID, code); err != nil {
			b.log.Error().Err(err).Int64("customer_id", c.ID).Msg("save language")
		}
	}
	b.sendLang(chatID, userID, "language_changed")
	b.sendWelcome(chatID, userID)
}

func categoryKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range models.Categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "cat_"+c), "cat:"+c))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_cart"), "cart"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendCategories(chatID, userID int64) {
	l := b.getLang(userID)
	b.sendWithMarkup(chatID, lang.T(l, "menu_title"), categoryKeyboard(l))
}

// itemLabel is the text of an item button: name, price and a NEW tag.
func itemLabel(it models.MenuItem, l string) string {
	label := fmt.Sprintf("%s - %s", it.Name, it.Price.StringFixed(2))
	if it.IsNew {
		label += " · " + lang.T(l, "item_new")
	}
	return label
}

func favoriteMark(fav bool) string {
	if fav {
		return "❤️"
	}
	return "♡"
}

func (b *Bot) itemKeyboard(items []models.MenuItem, customer *models.Customer, l string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(itemLabel(it, l), "add:"+it.ID),
			tgbotapi.NewInlineKeyboardButtonData(favoriteMark(b.deps.Favorites.IsFavorite(customer, it.ID)), "fav:"+it.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back"), services.CallbackMenu),
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_cart"), "cart"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendCategory(ctx context.Context, chatID, userID int64, category string) {
	l := b.getLang(userID)
	if !models.ValidCategory(category) {
		b.sendCategories(chatID, userID)
		return
	}
	all, err := b.deps.Menu.ListMenu(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list menu")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	items := services.ByCategory(services.AvailableItems(all), category)
	if len(items) == 0 {
		b.sendWithMarkup(chatID, lang.T(l, "category_empty"), categoryKeyboard(l))
		return
	}
	customer := b.customer(ctx, userID)
	if customer != nil {
		// warms the favorites mirror so the hearts are right
		if _, err := b.deps.Favorites.List(ctx, customer); err != nil {
			b.log.Warn().Err(err).Int64("customer_id", customer.ID).Msg("load favorites")
		}
	}
	b.sendWithMarkup(chatID, lang.T(l, "cat_"+category), b.itemKeyboard(items, customer, l))
}

// handleAdd puts one item into the cart and returns the callback toast.
func (b *Bot) handleAdd(ctx context.Context, userID int64, itemID string) string {
	l := b.getLang(userID)
	it, err := b.deps.Menu.GetMenuItem(ctx, itemID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			b.log.Error().Err(err).Str("item_id", itemID).Msg("get menu item")
			return lang.T(l, "error_generic")
		}
		return lang.T(l, "not_found")
	}
	if !it.Available() {
		return lang.T(l, "item_unavailable")
	}
	if err := b.session(userID).AddItem(*it); err != nil {
		if errors.Is(err, services.ErrSubmissionInProgress) {
			return lang.T(l, "submitting")
		}
		return lang.T(l, "error_generic")
	}
	return lang.T(l, "added", it.Name)
}

// handleFavorite toggles a favorite and returns the callback toast. Anonymous users get the sign-in prompt.
func (b *Bot) handleFavorite(ctx context.Context, chatID, userID int64, itemID string) string {
	l := b.getLang(userID)
	added, err := b.deps.Favorites.Toggle(ctx, b.customer(ctx, userID), itemID)
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		b.sendSignInPrompt(chatID, userID)
		return ""
	case err != nil:
		return lang.T(l, "fav_failed")
	case added:
		return lang.T(l, "fav_added")
	default:
		return lang.T(l, "fav_removed")
	}
}

func (b *Bot) sendFavorites(ctx context.Context, chatID, userID int64) {
	l := b.getLang(userID)
	customer := b.customer(ctx, userID)
	if customer == nil {
		b.sendSignInPrompt(chatID, userID)
		return
	}
	ids, err := b.deps.Favorites.List(ctx, customer)
	if err != nil {
		b.log.Error().Err(err).Int64("customer_id", customer.ID).Msg("list favorites")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	all, err := b.deps.Menu.ListMenu(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list menu")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	items := favoriteItems(all, ids)
	if len(items) == 0 {
		b.sendWithMarkup(chatID, lang.T(l, "favorites_empty"), categoryKeyboard(l))
		return
	}
	b.sendWithMarkup(chatID, lang.T(l, "favorites_title"), b.itemKeyboard(items, customer, l))
}

// favoriteItems keeps the available menu items whose ids are in ids, in menu order.
func favoriteItems(menu []models.MenuItem, ids []string) []models.MenuItem {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.MenuItem
	for _, it := range services.AvailableItems(menu) {
		if _, ok := want[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}
