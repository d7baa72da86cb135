package services

import (
	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

// Cart is the in-memory line list of one session. It is not safe for concurrent use;
// Session serializes access to it.
type Cart struct {
	lines []models.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			return i
		}
	}
	return -1
}

// AddItem bumps the line for item by one, or appends a new line with quantity 1.
func (c *Cart) AddItem(item models.MenuItem) {
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{Item: item, Quantity: 1})
}

// SetQuantity replaces the quantity of an existing line; n <= 0 removes it.
// A positive quantity for an item that is not in the cart is ignored.
func (c *Cart) SetQuantity(itemID string, n int) {
	if n <= 0 {
		c.RemoveItem(itemID)
		return
	}
	if i := c.indexOf(itemID); i >= 0 {
		c.lines[i].Quantity = n
	}
}

func (c *Cart) RemoveItem(itemID string) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Quantity of itemID, 0 when absent.
func (c *Cart) Quantity(itemID string) int {
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is always recomputed from the lines.
func (c *Cart) Subtotal() decimal.Decimal {
	return SumLines(c.lines)
}

// Total equals Subtotal: there is no tax or fee model.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal()
}

func SumLines(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}
