package services

import (
	"context"
	"sync"
	"time"

	"coffeeshop/models"
)

// CachedMenu is a read-through cache of the whole menu. Single items are served from the cached
// list and fall through to the backend on a miss.
type CachedMenu struct {
	next MenuCatalog
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	items   []models.MenuItem
	expires time.Time
}

func NewCachedMenu(next MenuCatalog, ttl time.Duration) *CachedMenu {
	return &CachedMenu{next: next, ttl: ttl, now: time.Now}
}

func (c *CachedMenu) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	c.mu.Lock()
	if c.items != nil && c.now().Before(c.expires) {
		items := append([]models.MenuItem(nil), c.items...)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	items, err := c.next.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	c.mu.Lock()
	c.items = items
	c.expires = c.now().Add(c.ttl)
	c.mu.Unlock()
	return append([]models.MenuItem(nil), items...), nil
}

func (c *CachedMenu) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	c.mu.Lock()
	if c.items != nil && c.now().Before(c.expires) {
		for _, it := range c.items {
			if it.ID == id {
				c.mu.Unlock()
				found := it
				return &found, nil
			}
		}
	}
	c.mu.Unlock()
	return c.next.GetMenuItem(ctx, id)
}

// Invalidate forces the next read to hit the backend, e.g. after a stock change.
func (c *CachedMenu) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
