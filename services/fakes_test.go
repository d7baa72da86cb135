package services

import (
	"context"
	"errors"
	"sync"

	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

var errBackend = errors.New("backend unavailable")

func item(id, name, price string) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: decimal.RequireFromString(price), Category: models.CategoryCoffee}
}

type memOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (s *memOrderStore) SaveOrder(_ context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, o)
	return nil
}

type memLedger struct {
	mu     sync.Mutex
	awards []models.LoyaltyAward
	err    error
}

func (l *memLedger) Append(_ context.Context, a models.LoyaltyAward) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.awards = append(l.awards, a)
	return nil
}

type memFavoriteStore struct {
	mu        sync.Mutex
	sets      map[int64]map[string]bool
	listErr   error
	addErr    error
	removeErr error
	lists     int
}

func newMemFavoriteStore() *memFavoriteStore {
	return &memFavoriteStore{sets: make(map[int64]map[string]bool)}
}

func (s *memFavoriteStore) ListFavorites(_ context.Context, customerID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var ids []string
	for id := range s.sets[customerID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memFavoriteStore) AddFavorite(_ context.Context, customerID int64, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	if s.sets[customerID] == nil {
		s.sets[customerID] = make(map[string]bool)
	}
	s.sets[customerID][itemID] = true
	return nil
}

func (s *memFavoriteStore) RemoveFavorite(_ context.Context, customerID int64, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.sets[customerID], itemID)
	return nil
}

func (s *memFavoriteStore) has(customerID int64, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[customerID][itemID]
}

type memMenu struct {
	items []models.MenuItem
	err   error
	lists int
	gets  int
}

func (m *memMenu) ListMenu(context.Context) ([]models.MenuItem, error) {
	m.lists++
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.MenuItem(nil), m.items...), nil
}

func (m *memMenu) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	for _, it := range m.items {
		if it.ID == id {
			found := it
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
