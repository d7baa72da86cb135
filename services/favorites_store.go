package services

import (
	"context"

	"coffeeshop/db"
)

// PgFavoriteStore keeps (customer_id, product_id) rows; the primary key rules out duplicates.
type PgFavoriteStore struct {
	db db.DBTX
}

func NewPgFavoriteStore(conn db.DBTX) *PgFavoriteStore {
	return &PgFavoriteStore{db: conn}
}

func (s *PgFavoriteStore) ListFavorites(ctx context.Context, customerID int64) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT product_id FROM favorites WHERE customer_id = $1 ORDER BY product_id`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PgFavoriteStore) AddFavorite(ctx context.Context, customerID int64, itemID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO favorites (customer_id, product_id) VALUES ($1, $2)
		ON CONFLICT (customer_id, product_id) DO NOTHING`,
		customerID, itemID,
	)
	return err
}

func (s *PgFavoriteStore) RemoveFavorite(ctx context.Context, customerID int64, itemID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE customer_id = $1 AND product_id = $2`, customerID, itemID)
	return err
}
