package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coffeeshop/db"
	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

// orderItemJSON is the shape of one element of orders.items.
type orderItemJSON struct {
	ItemID    string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

func encodeOrderItems(lines []models.OrderLine) ([]byte, error) {
	items := make([]orderItemJSON, len(lines))
	for i, l := range lines {
		items[i] = orderItemJSON{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
		}
	}
	return json.Marshal(items)
}

func decodeOrderItems(b []byte) ([]models.OrderLine, error) {
	var items []orderItemJSON
	if len(b) > 0 {
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}
	lines := make([]models.OrderLine, len(items))
	for i, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("order item %q price: %w", it.Name, err)
		}
		total, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("order item %q line_total: %w", it.Name, err)
		}
		lines[i] = models.OrderLine{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity, UnitPrice: price, LineTotal: total}
	}
	return lines, nil
}

// PgOrderStore writes orders rows. Orders are insert-only.
type PgOrderStore struct {
	db db.DBTX
}

func NewPgOrderStore(conn db.DBTX) *PgOrderStore {
	return &PgOrderStore{db: conn}
}

func (s *PgOrderStore) SaveOrder(ctx context.Context, o models.Order) error {
	itemsJSON, err := encodeOrderItems(o.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO orders (id, created_at, customer_id, table_number, items, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`,
		o.ID, o.CreatedAt, o.CustomerID, o.Delivery.TableID, itemsJSON, o.Total.StringFixed(2), o.Delivery.Note,
	)
	return err
}

// ListCustomerOrders returns the latest orders of a customer, newest first.
func (s *PgOrderStore) ListCustomerOrders(ctx context.Context, customerID int64, limit int) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, created_at, table_number, items, total::text, notes
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		customerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var itemsJSON []byte
		var total string
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.Delivery.TableID, &itemsJSON, &total, &o.Delivery.Note); err != nil {
			return nil, err
		}
		if o.Lines, err = decodeOrderItems(itemsJSON); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %s total: %w", o.ID, err)
		}
		id := customerID
		o.CustomerID = &id
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetDailyStats summarizes the orders of one calendar day (YYYY-MM-DD, server time zone).
func (s *PgOrderStore) GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ValidationError{Message: "date must be YYYY-MM-DD"}
	}
	var st models.DailyStats
	var revenue string
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(total), 0)::text,
			COALESCE(SUM((SELECT SUM((e->>'quantity')::int) FROM jsonb_array_elements(items) e)), 0)::int
		FROM orders
		WHERE created_at::date = $1::date`,
		date,
	).Scan(&st.OrdersCount, &revenue, &st.ItemsSold)
	if err != nil {
		return nil, err
	}
	if st.Revenue, err = decimal.NewFromString(revenue); err != nil {
		return nil, err
	}
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(points), 0)::bigint FROM loyalty_transactions
		WHERE points > 0 AND created_at::date = $1::date`,
		date,
	).Scan(&st.PointsAwarded)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
