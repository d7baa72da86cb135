package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"coffeeshop/db"
	"coffeeshop/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Integration tests for the Postgres stores. Skip without TEST_DATABASE_URL or in -short mode.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping postgres integration test: TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	names, err := filepath.Glob("../migrations/*.sql")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	for _, name := range names {
		sql, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return pool
}

func TestPgStores_Integration(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	customers := NewPgCustomerStore(pool)
	tgID := time.Now().UnixNano()
	c, err := customers.UpsertTelegramCustomer(ctx, tgID, "Ada", "+100", models.RoleCustomer)
	if err != nil {
		t.Fatalf("UpsertTelegramCustomer: %v", err)
	}
	if c.Role != models.RoleCustomer || c.Data != (models.CustomerData{}) {
		t.Errorf("customer = %+v", c)
	}
	if _, err := customers.GetCustomer(ctx, -1); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCustomer(-1) err = %v, want ErrNotFound", err)
	}

	menu := NewPgMenuStore(pool)
	id, err := menu.AddMenuItem(ctx, models.MenuItem{Category: models.CategoryCoffee, Name: "Test Espresso", Price: decimal.RequireFromString("2.50")})
	if err != nil {
		t.Fatalf("AddMenuItem: %v", err)
	}
	it, err := menu.GetMenuItem(ctx, id)
	if err != nil || !it.Price.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("GetMenuItem = %+v, %v", it, err)
	}
	if err := menu.SetOutOfStock(ctx, id, true); err != nil {
		t.Fatalf("SetOutOfStock: %v", err)
	}
	if err := menu.SetOutOfStock(ctx, "-1", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetOutOfStock(-1) err = %v, want ErrNotFound", err)
	}

	orders := NewPgOrderStore(pool)
	ledger := NewPgLoyaltyLedger(pool)
	p := NewOrderPipeline(orders, ledger, LoyaltyPolicy{PointsPerUnit: 10}, zerolog.Nop())
	cart := NewCart()
	cart.AddItem(*it)
	cart.AddItem(*it)
	o := p.Submit(ctx, cart.Lines(), models.DeliveryContext{TableID: "5"}, c)

	listed, err := orders.ListCustomerOrders(ctx, c.ID, 5)
	if err != nil || len(listed) != 1 || listed[0].ID != o.ID || !listed[0].Total.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("ListCustomerOrders = %+v, %v", listed, err)
	}
	bal, err := ledger.Balance(ctx, c.ID)
	if err != nil || bal != 50 {
		t.Errorf("Balance = %d, %v; want 50", bal, err)
	}
	hist, err := ledger.History(ctx, c.ID, 10)
	if err != nil || len(hist) != 1 || hist[0].Points != 50 {
		t.Errorf("History = %+v, %v", hist, err)
	}

	favs := NewFavorites(NewPgFavoriteStore(pool), zerolog.Nop())
	if added, err := favs.Toggle(ctx, c, id); err != nil || !added {
		t.Errorf("Toggle = %v, %v", added, err)
	}
	favs.Forget(c.ID)
	if ids, err := favs.List(ctx, c); err != nil || len(ids) != 1 || ids[0] != id {
		t.Errorf("List = %v, %v", ids, err)
	}

	st, err := orders.GetDailyStats(ctx, o.CreatedAt.Format("2006-01-02"))
	if err != nil || st.OrdersCount < 1 {
		t.Errorf("GetDailyStats = %+v, %v", st, err)
	}
	if _, err := orders.GetDailyStats(ctx, "yesterday"); !IsValidation(err) {
		t.Errorf("GetDailyStats(bad date) err = %v, want validation", err)
	}

	msgs := NewMessageLog(pool)
	if err := msgs.SaveOutboundMessage(ctx, tgID, "receipt", map[string]interface{}{"sent_via": "order_confirmation", "order_id": o.ID}); err != nil {
		t.Fatalf("SaveOutboundMessage: %v", err)
	}
	if sent, err := msgs.ConfirmationSent(ctx, o.ID); err != nil || !sent {
		t.Errorf("ConfirmationSent = %v, %v", sent, err)
	}
}
