package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coffeeshop/db"
	"coffeeshop/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// MenuCatalog is the read side of the menu the ordering surfaces depend on.
type MenuCatalog interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
}

// AvailableItems keeps the items a cart may take.
func AvailableItems(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Available() {
			out = append(out, it)
		}
	}
	return out
}

func ByCategory(items []models.MenuItem, category string) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// PgMenuStore reads and edits menu_items.
type PgMenuStore struct {
	db db.DBTX
}

func NewPgMenuStore(conn db.DBTX) *PgMenuStore {
	return &PgMenuStore{db: conn}
}

const menuColumns = `id::text, category, name, description, price::text, image_url, is_new, is_out_of_stock`

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var it models.MenuItem
	var price string
	if err := row.Scan(&it.ID, &it.Category, &it.Name, &it.Description, &price, &it.ImageURL, &it.IsNew, &it.OutOfStock); err != nil {
		return models.MenuItem{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("menu item %s price %q: %w", it.ID, price, err)
	}
	it.Price = p
	return it, nil
}

func (s *PgMenuStore) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+menuColumns+` FROM menu_items
		ORDER BY category, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PgMenuStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	it, err := scanMenuItem(s.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (s *PgMenuStore) AddMenuItem(ctx context.Context, it models.MenuItem) (string, error) {
	if !models.ValidCategory(it.Category) {
		return "", fmt.Errorf("invalid category: %s", it.Category)
	}
	if strings.TrimSpace(it.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if it.Price.IsNegative() {
		return "", fmt.Errorf("price must be >= 0")
	}

	var id string
	err := s.db.QueryRow(ctx, `
		INSERT INTO menu_items (category, name, description, price, image_url, is_new, is_out_of_stock)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
		RETURNING id::text`,
		it.Category, it.Name, it.Description, it.Price.String(), it.ImageURL, it.IsNew, it.OutOfStock,
	).Scan(&id)
	return id, err
}

// SetOutOfStock flips availability; ErrNotFound when no row matched.
func (s *PgMenuStore) SetOutOfStock(ctx context.Context, id string, out bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE menu_items SET is_out_of_stock = $1, updated_at = now() WHERE id::text = $2`,
		out, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
