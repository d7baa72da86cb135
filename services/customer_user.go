package services

import (
	"context"
	"encoding/json"
	"errors"

	"coffeeshop/db"
	"coffeeshop/models"

	"github.com/jackc/pgx/v5"
)

// CustomerDirectory resolves signed-in customers.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByTelegram(ctx context.Context, tgUserID int64) (*models.Customer, error)
}

// Authorize is the one back-office permission check.
func Authorize(c *models.Customer, a models.Action) error {
	if c == nil {
		return ErrUnauthenticated
	}
	if !c.Role.Can(a) {
		return ErrForbidden
	}
	return nil
}

// PgCustomerStore reads and writes customers rows.
type PgCustomerStore struct {
	db db.DBTX
}

func NewPgCustomerStore(conn db.DBTX) *PgCustomerStore {
	return &PgCustomerStore{db: conn}
}

const customerColumns = `id, COALESCE(tg_user_id, 0), name, phone, role, COALESCE(language, ''), loyalty_points, customer_data`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	var role string
	var data []byte
	if err := row.Scan(&c.ID, &c.TelegramID, &c.Name, &c.Phone, &role, &c.Language, &c.LoyaltyPoints, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Role = models.ParseRole(role)
	c.Data = decodeCustomerData(data)
	return &c, nil
}

// decodeCustomerData resolves the nullable customer_data column once; NULL or junk gives the zero value.
func decodeCustomerData(b []byte) models.CustomerData {
	var d models.CustomerData
	if len(b) == 0 {
		return d
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return models.CustomerData{}
	}
	return d
}

func (s *PgCustomerStore) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return scanCustomer(s.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (s *PgCustomerStore) GetCustomerByTelegram(ctx context.Context, tgUserID int64) (*models.Customer, error) {
	return scanCustomer(s.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE tg_user_id = $1`, tgUserID))
}

// UpsertTelegramCustomer signs a telegram user in by phone contact. The role is only raised, never lowered,
// so a promoted admin keeps the role across sign-ins.
func (s *PgCustomerStore) UpsertTelegramCustomer(ctx context.Context, tgUserID int64, name, phone string, role models.Role) (*models.Customer, error) {
	return scanCustomer(s.db.QueryRow(ctx, `
		INSERT INTO customers (tg_user_id, name, phone, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tg_user_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			role = CASE WHEN customers.role = 'customer' THEN EXCLUDED.role ELSE customers.role END,
			updated_at = now()
		RETURNING `+customerColumns,
		tgUserID, name, phone, string(role),
	))
}

// SetCustomerLanguage stores the preferred bot language of a signed-in customer.
func (s *PgCustomerStore) SetCustomerLanguage(ctx context.Context, customerID int64, language string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE customers SET language = $1, updated_at = now() WHERE id = $2`,
		language, customerID,
	)
	return err
}
