package services

import (
	"context"
	"sort"
	"sync"

	"coffeeshop/models"

	"github.com/rs/zerolog"
)

// FavoriteStore holds (customer_id, product_id) rows.
type FavoriteStore interface {
	ListFavorites(ctx context.Context, customerID int64) ([]string, error)
	AddFavorite(ctx context.Context, customerID int64, itemID string) error
	RemoveFavorite(ctx context.Context, customerID int64, itemID string) error
}

// Favorites keeps an in-memory mirror of each customer's favorite set in step with the store.
// The mirror is only changed after the store write succeeded.
type Favorites struct {
	store FavoriteStore
	log   zerolog.Logger

	mu     sync.Mutex
	mirror map[int64]map[string]struct{}
	locks  map[int64]*sync.Mutex
}

func NewFavorites(store FavoriteStore, log zerolog.Logger) *Favorites {
	return &Favorites{
		store:  store,
		log:    log,
		mirror: make(map[int64]map[string]struct{}),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// lockCustomer serializes toggles of one customer; different customers do not block each other.
func (f *Favorites) lockCustomer(id int64) func() {
	f.mu.Lock()
	l, ok := f.locks[id]
	if !ok {
		l = &sync.Mutex{}
		f.locks[id] = l
	}
	f.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// load fills the mirror for a customer if it is not there yet. Caller holds the customer lock.
func (f *Favorites) load(ctx context.Context, customerID int64) (map[string]struct{}, error) {
	f.mu.Lock()
	set, ok := f.mirror[customerID]
	f.mu.Unlock()
	if ok {
		return set, nil
	}
	ids, err := f.store.ListFavorites(ctx, customerID)
	if err != nil {
		return nil, &PersistenceFailure{Op: "list favorites", Err: err}
	}
	set = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	f.mu.Lock()
	f.mirror[customerID] = set
	f.mu.Unlock()
	return set, nil
}

// Toggle flips membership of itemID and reports whether it is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, customer *models.Customer, itemID string) (bool, error) {
	if customer == nil {
		return false, ErrUnauthenticated
	}
	unlock := f.lockCustomer(customer.ID)
	defer unlock()

	set, err := f.load(ctx, customer.ID)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	_, present := set[itemID]
	f.mu.Unlock()

	if present {
		if err := f.store.RemoveFavorite(ctx, customer.ID, itemID); err != nil {
			f.log.Warn().Err(err).Int64("customer_id", customer.ID).Str("item_id", itemID).Msg("remove favorite failed")
			return false, &PersistenceFailure{Op: "remove favorite", Err: err}
		}
		f.mu.Lock()
		delete(set, itemID)
		f.mu.Unlock()
		return false, nil
	}

	if err := f.store.AddFavorite(ctx, customer.ID, itemID); err != nil {
		f.log.Warn().Err(err).Int64("customer_id", customer.ID).Str("item_id", itemID).Msg("add favorite failed")
		return false, &PersistenceFailure{Op: "add favorite", Err: err}
	}
	f.mu.Lock()
	set[itemID] = struct{}{}
	f.mu.Unlock()
	return true, nil
}

// List returns the customer's favorite item ids, sorted.
func (f *Favorites) List(ctx context.Context, customer *models.Customer) ([]string, error) {
	if customer == nil {
		return nil, ErrUnauthenticated
	}
	unlock := f.lockCustomer(customer.ID)
	defer unlock()

	set, err := f.load(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	sort.Strings(ids)
	return ids, nil
}

// IsFavorite reads the mirror only; it is false for anonymous customers or unloaded sets.
func (f *Favorites) IsFavorite(customer *models.Customer, itemID string) bool {
	if customer == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.mirror[customer.ID][itemID]
	return ok
}

// Forget drops the cached set, e.g. when a session ends.
func (f *Favorites) Forget(customerID int64) {
	f.mu.Lock()
	delete(f.mirror, customerID)
	f.mu.Unlock()
}
