package services

import (
	"context"
	"errors"
	"fmt"

	"coffeeshop/db"
	"coffeeshop/models"

	"github.com/jackc/pgx/v5"
)

// PgLoyaltyLedger appends to loyalty_transactions and keeps customers.loyalty_points in step.
type PgLoyaltyLedger struct {
	db db.DBTX
}

func NewPgLoyaltyLedger(conn db.DBTX) *PgLoyaltyLedger {
	return &PgLoyaltyLedger{db: conn}
}

func (l *PgLoyaltyLedger) Append(ctx context.Context, award models.LoyaltyAward) error {
	if award.Points <= 0 {
		return fmt.Errorf("points must be positive")
	}
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO loyalty_transactions (customer_id, points, description)
		VALUES ($1, $2, $3)`,
		award.CustomerID, award.Points, award.Description,
	); err != nil {
		return fmt.Errorf("insert loyalty transaction: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE customers SET loyalty_points = loyalty_points + $1, updated_at = now() WHERE id = $2`,
		award.Points, award.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", award.CustomerID, ErrNotFound)
	}
	return tx.Commit(ctx)
}

// Balance is the customer's current point total.
func (l *PgLoyaltyLedger) Balance(ctx context.Context, customerID int64) (int64, error) {
	var pts int64
	err := l.db.QueryRow(ctx, `SELECT loyalty_points FROM customers WHERE id = $1`, customerID).Scan(&pts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return pts, nil
}

// History returns the latest ledger rows, newest first.
func (l *PgLoyaltyLedger) History(ctx context.Context, customerID int64, limit int) ([]models.LoyaltyTransaction, error) {
	rows, err := l.db.Query(ctx, `
		SELECT id, customer_id, points, description, created_at
		FROM loyalty_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		customerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LoyaltyTransaction
	for rows.Next() {
		var t models.LoyaltyTransaction
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Points, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
