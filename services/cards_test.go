package services

import (
	"strings"
	"testing"

	"coffeeshop/lang"
	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

func TestBuildCartCard_Empty(t *testing.T) {
	c := BuildCartCard(CartView{}, lang.En)
	if c.Text != lang.T(lang.En, "cart_empty") {
		t.Errorf("Text = %q", c.Text)
	}
	if len(c.Buttons) != 1 || c.Buttons[0][0].CallbackData != CallbackMenu {
		t.Errorf("Buttons = %+v, want a single menu button", c.Buttons)
	}
}

func TestBuildCartCard_Lines(t *testing.T) {
	s := NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	_ = s.AddItem(item("2", "Cappuccino", "3.80"))
	s.SetTable("4")
	s.SetNote("to go")

	c := BuildCartCard(s.View(), lang.En)
	for _, want := range []string{"Espresso × 2 — 5.00", "Cappuccino × 1 — 3.80", "Total: 8.80", "Table: 4", "Note: to go"} {
		if !strings.Contains(c.Text, want) {
			t.Errorf("card text missing %q:\n%s", want, c.Text)
		}
	}
	if len(c.Buttons) != 3 {
		t.Fatalf("rows = %d, want 2 line rows + actions", len(c.Buttons))
	}
	row := c.Buttons[0]
	if row[0].CallbackData != "dec:1" || row[2].CallbackData != "inc:1" || row[3].CallbackData != "rm:1" {
		t.Errorf("line row = %+v", row)
	}
	last := c.Buttons[2]
	if last[0].CallbackData != CallbackClear || last[1].CallbackData != CallbackCheckout {
		t.Errorf("action row = %+v", last)
	}
}

func TestBuildReceipt(t *testing.T) {
	o := models.Order{
		ID:       "ORD-1-abc",
		Delivery: models.DeliveryContext{TableID: "9", Note: "extra hot"},
		Lines: []models.OrderLine{
			{Name: "Espresso", Quantity: 2, UnitPrice: decimal.RequireFromString("2.50"), LineTotal: decimal.RequireFromString("5.00")},
		},
		Total: decimal.RequireFromString("5.00"),
	}
	c := BuildReceipt(o, 50, lang.En)
	for _, want := range []string{"ORD-1-abc", "Table 9", "Espresso × 2 — 5.00", "Total: 5.00", "Note: extra hot", "+50"} {
		if !strings.Contains(c.Text, want) {
			t.Errorf("receipt missing %q:\n%s", want, c.Text)
		}
	}
	if strings.Contains(BuildReceipt(o, 0, lang.En).Text, "loyalty") {
		t.Error("receipt without points should not mention loyalty points")
	}
	if !strings.Contains(BuildReceipt(o, 0, lang.Uz).Text, "9-stol") {
		t.Error("uzbek receipt should use the uzbek table label")
	}
}
