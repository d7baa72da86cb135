package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"coffeeshop/models"

	"github.com/shopspring/decimal"
)

// blockingOrderStore holds SaveOrder until release is closed.
type blockingOrderStore struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingOrderStore) SaveOrder(ctx context.Context, _ models.Order) error {
	close(s.entered)
	<-s.release
	return nil
}

func TestSession_CheckoutClearsCartKeepsTable(t *testing.T) {
	s := NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	_ = s.AddItem(item("2", "Cappuccino", "3.80"))
	s.SetTable("12")
	s.SetNote("oat milk")

	o, err := s.Checkout(context.Background(), newTestPipeline(&memOrderStore{}, nil), nil)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !o.Total.Equal(decimal.RequireFromString("8.80")) || o.Delivery.Note != "oat milk" {
		t.Errorf("order = %+v", o)
	}
	v := s.View()
	if len(v.Lines) != 0 || v.Total != "0.00" {
		t.Errorf("cart after checkout = %+v, want empty", v)
	}
	if v.Delivery.TableID != "12" || v.Delivery.Note != "" {
		t.Errorf("delivery after checkout = %+v, want table kept and note cleared", v.Delivery)
	}
}

func TestSession_CheckoutValidation(t *testing.T) {
	p := newTestPipeline(&memOrderStore{}, nil)

	s := NewSession()
	s.SetTable("1")
	if _, err := s.Checkout(context.Background(), p, nil); !IsValidation(err) {
		t.Errorf("empty cart err = %v, want validation error", err)
	}

	s = NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	if _, err := s.Checkout(context.Background(), p, nil); !IsValidation(err) {
		t.Errorf("missing table err = %v, want validation error", err)
	}
	if s.Quantity("1") != 1 {
		t.Error("failed validation must leave the cart untouched")
	}
}

func TestSession_DoubleSubmitIsRejected(t *testing.T) {
	store := &blockingOrderStore{entered: make(chan struct{}), release: make(chan struct{})}
	p := newTestPipeline(store, nil)
	s := NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	s.SetTable("3")

	done := make(chan error, 1)
	go func() {
		_, err := s.Checkout(context.Background(), p, nil)
		done <- err
	}()
	<-store.entered

	if _, err := s.Checkout(context.Background(), p, nil); !errors.Is(err, ErrSubmissionInProgress) {
		t.Errorf("second Checkout err = %v, want ErrSubmissionInProgress", err)
	}
	if err := s.AddItem(item("2", "Mocha", "4.00")); !errors.Is(err, ErrSubmissionInProgress) {
		t.Errorf("AddItem during submit err = %v, want ErrSubmissionInProgress", err)
	}
	if !s.View().Submitting {
		t.Error("View().Submitting should be true while the order is in flight")
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first Checkout: %v", err)
	}
	if err := s.AddItem(item("2", "Mocha", "4.00")); err != nil {
		t.Errorf("AddItem after submit: %v", err)
	}
}

func TestSession_Mutations(t *testing.T) {
	s := NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	_ = s.SetQuantity("1", 4)
	if got := s.Quantity("1"); got != 4 {
		t.Errorf("Quantity = %d, want 4", got)
	}
	if v := s.View(); v.Subtotal != "10.00" || v.ItemCount != 4 {
		t.Errorf("View = %+v", v)
	}
	_ = s.RemoveItem("1")
	_ = s.AddItem(item("2", "Mocha", "4.00"))
	_ = s.Clear()
	if v := s.View(); len(v.Lines) != 0 {
		t.Errorf("lines after Clear = %v", v.Lines)
	}
}

func TestSessions_GetIsStable(t *testing.T) {
	ss := NewSessions()
	var wg sync.WaitGroup
	got := make([]*Session, 20)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = ss.Get("user-1")
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] {
			t.Fatal("Get returned different sessions for one key")
		}
	}
	for i := 0; i < 3; i++ {
		ss.Get(fmt.Sprintf("other-%d", i))
	}
	if ss.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ss.Len())
	}
	ss.Drop("user-1")
	if ss.Get("user-1") == got[0] {
		t.Error("Drop should forget the session")
	}
}

type panickingOrderStore struct{}

func (panickingOrderStore) SaveOrder(context.Context, models.Order) error {
	panic("driver exploded")
}

func TestSession_CheckoutPanicReleasesGuard(t *testing.T) {
	s := NewSession()
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	s.SetTable("3")

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Checkout should have panicked")
			}
		}()
		_, _ = s.Checkout(context.Background(), newTestPipeline(panickingOrderStore{}, nil), nil)
	}()

	if s.View().Submitting {
		t.Fatal("session still marked as submitting after a panic")
	}
	if err := s.AddItem(item("2", "Cappuccino", "3.80")); err != nil {
		t.Errorf("AddItem after panic = %v, want nil", err)
	}
	if got := len(s.View().Lines); got != 2 {
		t.Errorf("cart lines after failed checkout = %d, want 2 (cart kept)", got)
	}
}

func TestSessions_PruneDropsIdle(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ss := NewSessions()
	ss.now = func() time.Time { return now }

	ss.Get("old")
	now = now.Add(90 * time.Minute)
	ss.Get("fresh")
	now = now.Add(45 * time.Minute)

	if n := ss.Prune(time.Hour); n != 1 {
		t.Errorf("Prune = %d, want 1", n)
	}
	if ss.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ss.Len())
	}

	now = now.Add(2 * time.Hour)
	if n := ss.Prune(time.Hour); n != 1 || ss.Len() != 0 {
		t.Errorf("Prune = %d, Len = %d, want 1 and 0", n, ss.Len())
	}
}

func TestSessions_GetRefreshesLastUse(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ss := NewSessions()
	ss.now = func() time.Time { return now }

	first := ss.Get("user-1")
	now = now.Add(50 * time.Minute)
	ss.Get("user-1")
	now = now.Add(50 * time.Minute)

	if n := ss.Prune(time.Hour); n != 0 {
		t.Errorf("Prune = %d, want 0 for a recently used session", n)
	}
	if ss.Get("user-1") != first {
		t.Error("recently used session was replaced")
	}
}

func TestSessions_PruneKeepsSubmitting(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ss := NewSessions()
	ss.now = func() time.Time { return now }

	s := ss.Get("user-1")
	_ = s.AddItem(item("1", "Espresso", "2.50"))
	s.SetTable("4")

	store := &blockingOrderStore{entered: make(chan struct{}), release: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Checkout(context.Background(), newTestPipeline(store, nil), nil)
	}()
	<-store.entered

	now = now.Add(24 * time.Hour)
	if n := ss.Prune(time.Hour); n != 0 {
		t.Errorf("Prune = %d, want 0 while an order is being placed", n)
	}
	close(store.release)
	<-done

	if n := ss.Prune(time.Hour); n != 1 {
		t.Errorf("Prune after checkout = %d, want 1", n)
	}
}
