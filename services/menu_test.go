package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"coffeeshop/models"
)

func TestAvailableItems(t *testing.T) {
	items := []models.MenuItem{
		{ID: "1", Name: "Espresso"},
		{ID: "2", Name: "Matcha", OutOfStock: true},
		{ID: "3", Name: "Croissant"},
	}
	got := AvailableItems(items)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("AvailableItems = %+v", got)
	}
}

func TestByCategory(t *testing.T) {
	items := []models.MenuItem{
		{ID: "1", Category: models.CategoryCoffee},
		{ID: "2", Category: models.CategoryTea},
		{ID: "3", Category: models.CategoryCoffee},
	}
	if got := ByCategory(items, models.CategoryCoffee); len(got) != 2 {
		t.Errorf("ByCategory(coffee) = %+v", got)
	}
	if got := ByCategory(items, models.CategoryDessert); len(got) != 0 {
		t.Errorf("ByCategory(dessert) = %+v", got)
	}
}

func TestCachedMenu(t *testing.T) {
	backend := &memMenu{items: []models.MenuItem{item("1", "Espresso", "2.50")}}
	c := NewCachedMenu(backend, time.Minute)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if items, err := c.ListMenu(ctx); err != nil || len(items) != 1 {
			t.Fatalf("ListMenu = %v, %v", items, err)
		}
	}
	if backend.lists != 1 {
		t.Errorf("backend lists = %d, want 1", backend.lists)
	}

	it, err := c.GetMenuItem(ctx, "1")
	if err != nil || it.Name != "Espresso" || backend.gets != 0 {
		t.Errorf("GetMenuItem cached = %+v, %v (gets=%d)", it, err, backend.gets)
	}
	if _, err := c.GetMenuItem(ctx, "9"); !errors.Is(err, ErrNotFound) || backend.gets != 1 {
		t.Errorf("GetMenuItem miss err = %v (gets=%d)", err, backend.gets)
	}

	now = now.Add(2 * time.Minute)
	_, _ = c.ListMenu(ctx)
	if backend.lists != 2 {
		t.Errorf("backend lists after expiry = %d, want 2", backend.lists)
	}

	c.Invalidate()
	_, _ = c.ListMenu(ctx)
	if backend.lists != 3 {
		t.Errorf("backend lists after Invalidate = %d, want 3", backend.lists)
	}
}

func TestCachedMenu_ErrorNotCached(t *testing.T) {
	backend := &memMenu{err: errBackend}
	c := NewCachedMenu(backend, time.Minute)
	if _, err := c.ListMenu(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v, want errBackend", err)
	}
	backend.err = nil
	backend.items = []models.MenuItem{item("1", "Espresso", "2.50")}
	if items, err := c.ListMenu(context.Background()); err != nil || len(items) != 1 {
		t.Errorf("ListMenu after recovery = %v, %v", items, err)
	}
}
