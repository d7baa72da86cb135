package services

import (
	"context"
	"sync"
	"time"

	"coffeeshop/models"
)

// Session owns one cart and its delivery context. All access goes through its mutex.
type Session struct {
	mu         sync.Mutex
	cart       *Cart
	delivery   models.DeliveryContext
	submitting bool
	lastUsed   time.Time
}

func NewSession() *Session {
	return &Session{cart: NewCart()}
}

// CartView is a consistent read of a session's cart.
type CartView struct {
	Lines      []models.CartLine
	Subtotal   string
	Total      string
	ItemCount  int
	Delivery   models.DeliveryContext
	Submitting bool
}

func (s *Session) View() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CartView{
		Lines:      s.cart.Lines(),
		Subtotal:   s.cart.Subtotal().StringFixed(2),
		Total:      s.cart.Total().StringFixed(2),
		ItemCount:  s.cart.ItemCount(),
		Delivery:   s.delivery,
		Submitting: s.submitting,
	}
}

// mutate runs fn on the cart unless a submission is in flight.
func (s *Session) mutate(fn func(c *Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmissionInProgress
	}
	fn(s.cart)
	return nil
}

func (s *Session) AddItem(item models.MenuItem) error {
	return s.mutate(func(c *Cart) { c.AddItem(item) })
}

func (s *Session) SetQuantity(itemID string, n int) error {
	return s.mutate(func(c *Cart) { c.SetQuantity(itemID, n) })
}

func (s *Session) RemoveItem(itemID string) error {
	return s.mutate(func(c *Cart) { c.RemoveItem(itemID) })
}

func (s *Session) Clear() error {
	return s.mutate(func(c *Cart) { c.Clear() })
}

// Quantity of itemID currently in the cart.
func (s *Session) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(itemID)
}

func (s *Session) SetTable(tableID string) {
	s.mu.Lock()
	s.delivery.TableID = tableID
	s.mu.Unlock()
}

func (s *Session) SetNote(note string) {
	s.mu.Lock()
	s.delivery.Note = note
	s.mu.Unlock()
}

func (s *Session) Delivery() models.DeliveryContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivery
}

// Checkout validates the cart, submits it once and clears it. While Submit runs the session is
// marked as submitting so a second Checkout or any cart change gets ErrSubmissionInProgress.
// The table stays selected for the next order; the note does not.
func (s *Session) Checkout(ctx context.Context, pipeline *OrderPipeline, customer *models.Customer) (models.Order, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return models.Order{}, ErrSubmissionInProgress
	}
	lines := s.cart.Lines()
	delivery := s.delivery
	if err := ValidateCheckout(lines, delivery); err != nil {
		s.mu.Unlock()
		return models.Order{}, err
	}
	s.submitting = true
	s.mu.Unlock()

	done := false
	defer func() {
		s.mu.Lock()
		if done {
			s.cart.Clear()
			s.delivery.Note = ""
		}
		s.submitting = false
		s.mu.Unlock()
	}()

	order := pipeline.Submit(ctx, lines, delivery, customer)
	done = true
	return order, nil
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastUsed = t
	s.mu.Unlock()
}

// idleSince reports whether the session was last used before cutoff and is not placing an order.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.submitting && s.lastUsed.Before(cutoff)
}

// Sessions maps a session key (telegram user, browser session id) to its Session.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session), now: time.Now}
}

// Get returns the session for key, creating an empty one on first use. Every Get counts as use.
func (s *Sessions) Get(key string) *Session {
	now := s.now()
	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		sess.touch(now)
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		sess.touch(now)
		return sess
	}
	sess = NewSession()
	sess.lastUsed = now
	s.sessions[key] = sess
	return sess
}

// Prune drops sessions unused for longer than idle, skipping any that are placing an order.
// It returns how many were dropped.
func (s *Sessions) Prune(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, key)
			n++
		}
	}
	return n
}

func (s *Sessions) Drop(key string) {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
