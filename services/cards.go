package services

import (
	"fmt"
	"strconv"

	"coffeeshop/lang"
	"coffeeshop/models"
)

// CardButton is one inline button (text + callback_data or url).
type CardButton struct {
	Text         string
	CallbackData string
	URL          string // if set, use as URL button instead of callback
}

// CardContent is the text and optional inline keyboard of a chat card.
type CardContent struct {
	Text    string
	Buttons [][]CardButton
}

// Callback prefixes shared by the cart card and the bot dispatcher.
const (
	CallbackInc      = "inc:"
	CallbackDec      = "dec:"
	CallbackRemove   = "rm:"
	CallbackClear    = "clear"
	CallbackCheckout = "checkout"
	CallbackMenu     = "menu"
)

// BuildCartCard renders the cart with per-line -/+/remove buttons.
func BuildCartCard(v CartView, langCode string) CardContent {
	if len(v.Lines) == 0 {
		return CardContent{
			Text:    lang.T(langCode, "cart_empty"),
			Buttons: [][]CardButton{{{Text: lang.T(langCode, "btn_menu"), CallbackData: CallbackMenu}}},
		}
	}
	text := lang.T(langCode, "cart_title") + "\n\n"
	var buttons [][]CardButton
	for _, l := range v.Lines {
		text += fmt.Sprintf("• %s × %d — %s\n", l.Item.Name, l.Quantity, l.LineTotal().StringFixed(2))
		buttons = append(buttons, []CardButton{
			{Text: "−", CallbackData: CallbackDec + l.Item.ID},
			{Text: l.Item.Name + " ×" + strconv.Itoa(l.Quantity), CallbackData: CallbackMenu},
			{Text: "+", CallbackData: CallbackInc + l.Item.ID},
			{Text: "✕", CallbackData: CallbackRemove + l.Item.ID},
		})
	}
	text += "\n" + lang.T(langCode, "cart_total", v.Total)
	if v.Delivery.TableID != "" {
		text += "\n" + lang.T(langCode, "cart_table", v.Delivery.TableID)
	}
	if v.Delivery.Note != "" {
		text += "\n" + lang.T(langCode, "cart_note", v.Delivery.Note)
	}
	buttons = append(buttons, []CardButton{
		{Text: lang.T(langCode, "btn_clear"), CallbackData: CallbackClear},
		{Text: lang.T(langCode, "btn_checkout"), CallbackData: CallbackCheckout},
	})
	return CardContent{Text: text, Buttons: buttons}
}

// BuildReceipt renders a placed order. points is the award shown to the customer (0 hides the line).
func BuildReceipt(o models.Order, points int64, langCode string) CardContent {
	text := lang.T(langCode, "order_placed", o.ID) + "\n"
	text += lang.T(langCode, "receipt_table", o.Delivery.TableID) + "\n\n"
	for _, l := range o.Lines {
		text += fmt.Sprintf("• %s × %d — %s\n", l.Name, l.Quantity, l.LineTotal.StringFixed(2))
	}
	text += "\n" + lang.T(langCode, "receipt_total", o.Total.StringFixed(2))
	if o.Delivery.Note != "" {
		text += "\n" + lang.T(langCode, "receipt_note", o.Delivery.Note)
	}
	if points > 0 {
		text += "\n" + lang.T(langCode, "points_earned", points)
	}
	return CardContent{
		Text:    text,
		Buttons: [][]CardButton{{{Text: lang.T(langCode, "btn_order_again"), CallbackData: CallbackMenu}}},
	}
}
