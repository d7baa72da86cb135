package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (item, quantity) entry of a cart. Quantity is always >= 1.
type CartLine struct {
	Item     MenuItem
	Quantity int
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DeliveryContext says where an order goes. TableID is required before checkout.
type DeliveryContext struct {
	TableID string
	Note    string
}

// OrderLine is the immutable snapshot of a CartLine taken at submission.
type OrderLine struct {
	ItemID    string          `json:"-"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is never mutated after the pipeline returns it.
type Order struct {
	ID         string
	CreatedAt  time.Time
	CustomerID *int64 // nil for anonymous orders
	Delivery   DeliveryContext
	Lines      []OrderLine
	Total      decimal.Decimal

	PointsAwarded int64 // credited to the ledger during submission; not stored with the order
}

// LoyaltyAward is appended to a customer's point ledger after an order.
type LoyaltyAward struct {
	CustomerID  int64
	Points      int64
	Description string
}

// LoyaltyTransaction is one row of the ledger as read back.
type LoyaltyTransaction struct {
	ID          int64
	CustomerID  int64
	Points      int64
	Description string
	CreatedAt   time.Time
}

type DailyStats struct {
	OrdersCount   int
	Revenue       decimal.Decimal
	ItemsSold     int
	PointsAwarded int64
}
