package bot

import (
	"context"
	"errors"
	"strconv"

	"coffeeshop/lang"
	"coffeeshop/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) sendCart(chatID, userID int64) {
	b.sendCard(chatID, 0, services.BuildCartCard(b.session(userID).View(), b.getLang(userID)))
}

// handleCartEdit applies a -/+/remove/clear button and redraws the cart card in place.
func (b *Bot) handleCartEdit(chatID int64, messageID int, userID int64, action, itemID string) {
	sess := b.session(userID)
	var err error
	switch action {
	case "inc":
		err = sess.SetQuantity(itemID, sess.Quantity(itemID)+1)
	case "dec":
		err = sess.SetQuantity(itemID, sess.Quantity(itemID)-1)
	case "rm":
		err = sess.RemoveItem(itemID)
	case services.CallbackClear:
		err = sess.Clear()
	}
	if errors.Is(err, services.ErrSubmissionInProgress) {
		b.sendLang(chatID, userID, "submitting")
		return
	}
	b.sendCard(chatID, messageID, services.BuildCartCard(sess.View(), b.getLang(userID)))
}

func (b *Bot) handleNote(chatID, userID int64, note string) {
	if note == "" {
		b.sendLang(chatID, userID, "note_usage")
		return
	}
	b.session(userID).SetNote(note)
	b.sendLang(chatID, userID, "note_saved")
}

func tableKeyboard(tables int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := 1; i <= tables; i++ {
		n := strconv.Itoa(i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(n, "table:"+n))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) validTable(tableID string) bool {
	n, err := strconv.Atoi(tableID)
	return err == nil && n >= 1 && n <= b.cfg.Shop.Tables
}

func (b *Bot) handleCheckout(ctx context.Context, chatID, userID int64) {
	sess := b.session(userID)
	if sess.Delivery().TableID == "" {
		b.sendWithMarkup(chatID, lang.T(b.getLang(userID), "choose_table"), tableKeyboard(b.cfg.Shop.Tables))
		return
	}
	b.submit(ctx, chatID, userID)
}

func (b *Bot) handleTable(ctx context.Context, chatID, userID int64, tableID string) {
	if !b.validTable(tableID) {
		b.sendWithMarkup(chatID, lang.T(b.getLang(userID), "choose_table"), tableKeyboard(b.cfg.Shop.Tables))
		return
	}
	sess := b.session(userID)
	sess.SetTable(tableID)
	if sess.View().ItemCount == 0 {
		b.sendLang(chatID, userID, "table_selected", tableID)
		return
	}
	b.submit(ctx, chatID, userID)
}

// validationKey maps a checkout validation error to its catalog key.
func validationKey(err error) string {
	var ve services.ValidationError
	if errors.As(err, &ve) {
		switch ve.Message {
		case services.ErrMsgCartEmpty:
			return "cart_empty"
		case services.ErrMsgTableMissing:
			return "choose_table"
		}
	}
	return "error_generic"
}

func (b *Bot) submit(ctx context.Context, chatID, userID int64) {
	l := b.getLang(userID)
	customer := b.customer(ctx, userID)
	order, err := b.session(userID).Checkout(ctx, b.deps.Pipeline, customer)
	switch {
	case errors.Is(err, services.ErrSubmissionInProgress):
		b.sendLang(chatID, userID, "submitting")
		return
	case err != nil:
		key := validationKey(err)
		if key == "choose_table" {
			b.sendWithMarkup(chatID, lang.T(l, key), tableKeyboard(b.cfg.Shop.Tables))
			return
		}
		b.sendLang(chatID, userID, key)
		return
	}

	receipt := services.BuildReceipt(order, order.PointsAwarded, l)
	b.sendCard(chatID, 0, receipt)

	meta := map[string]interface{}{
		"sent_via": "order_confirmation",
		"order_id": order.ID,
	}
	if err := b.deps.Messages.SaveOutboundMessage(ctx, chatID, receipt.Text, meta); err != nil {
		b.log.Error().Err(err).Str("order_id", order.ID).Msg("record confirmation")
	}
}
