package bot

import (
	"context"
	"errors"
	"time"

	"coffeeshop/lang"
	"coffeeshop/models"
	"coffeeshop/services"
)

// staff resolves the caller and checks the action; it replies and returns nil when not allowed.
func (b *Bot) staff(ctx context.Context, chatID, userID int64, action models.Action) *models.Customer {
	c := b.customer(ctx, userID)
	switch err := services.Authorize(c, action); {
	case errors.Is(err, services.ErrUnauthenticated):
		b.sendSignInPrompt(chatID, userID)
		return nil
	case err != nil:
		b.sendLang(chatID, userID, "forbidden")
		return nil
	}
	return c
}

func (b *Bot) handleStats(ctx context.Context, chatID, userID int64, date string) {
	if b.staff(ctx, chatID, userID, models.ActionViewStats) == nil {
		return
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	st, err := b.deps.Orders.GetDailyStats(ctx, date)
	if err != nil {
		if services.IsValidation(err) {
			b.sendLang(chatID, userID, "stats_usage")
			return
		}
		b.log.Error().Err(err).Str("date", date).Msg("daily stats")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	b.sendLang(chatID, userID, "stats", date, st.OrdersCount, st.Revenue.StringFixed(2), st.ItemsSold, st.PointsAwarded)
}

func (b *Bot) handleStock(ctx context.Context, chatID, userID int64, itemID string, out bool) {
	c := b.staff(ctx, chatID, userID, models.ActionManageMenu)
	if c == nil {
		return
	}
	if itemID == "" {
		b.sendLang(chatID, userID, "stock_usage")
		return
	}
	if err := b.deps.Stock.SetOutOfStock(ctx, itemID, out); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			b.sendLang(chatID, userID, "not_found")
			return
		}
		b.log.Error().Err(err).Str("item_id", itemID).Msg("set stock")
		b.sendLang(chatID, userID, "error_generic")
		return
	}
	if b.deps.Invalidate != nil {
		b.deps.Invalidate()
	}
	b.log.Info().Int64("customer_id", c.ID).Str("item_id", itemID).Bool("out_of_stock", out).Msg("stock changed")
	b.send(chatID, lang.T(b.getLang(userID), "stock_updated", itemID))
}
