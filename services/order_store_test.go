package services

import (
	"encoding/json"
	"testing"

	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

func TestEncodeOrderItemsWireShape(t *testing.T) {
	lines := []models.OrderLine{
		{ItemID: "1", Name: "Espresso", Quantity: 2, UnitPrice: decimal.RequireFromString("2.5"), LineTotal: decimal.RequireFromString("5")},
	}
	b, err := encodeOrderItems(lines)
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"product_id": "1", "name": "Espresso", "quantity": float64(2), "price": "2.50", "line_total": "5.00"}
	for k, v := range want {
		if got[0][k] != v {
			t.Errorf("items[0][%q] = %v, want %v", k, got[0][k], v)
		}
	}

	back, err := decodeOrderItems(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || !back[0].LineTotal.Equal(lines[0].LineTotal) || back[0].Name != "Espresso" {
		t.Errorf("decodeOrderItems = %+v", back)
	}
}

func TestDecodeOrderItemsBadPrice(t *testing.T) {
	if _, err := decodeOrderItems([]byte(`[{"name":"x","quantity":1,"price":"abc","line_total":"1"}]`)); err == nil {
		t.Error("expected error for unparsable price")
	}
	if lines, err := decodeOrderItems(nil); err != nil || len(lines) != 0 {
		t.Errorf("decodeOrderItems(nil) = %v, %v", lines, err)
	}
}
