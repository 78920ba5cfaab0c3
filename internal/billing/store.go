package billing

import (
	"context"
	"sync"
)

type Store interface {
	Insert(ctx context.Context, inv *Invoice) error // assigns ID
	List(ctx context.Context) ([]Invoice, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]Invoice, error)
}

type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	items  []Invoice
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Insert(_ context.Context, inv *Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	inv.ID = s.nextID
	s.items = append(s.items, cloneInvoice(*inv))
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Invoice, 0, len(s.items))
	for _, inv := range s.items {
		out = append(out, cloneInvoice(inv))
	}
	return out, nil
}

func (s *MemoryStore) ListByBooking(_ context.Context, bookingID int64) ([]Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Invoice{}
	for _, inv := range s.items {
		if inv.BookingID == bookingID {
			out = append(out, cloneInvoice(inv))
		}
	}
	return out, nil
}

// cloneInvoice detaches the line items so stored invoices cannot be edited through a copy.
func cloneInvoice(inv Invoice) Invoice {
	inv.Services = append([]AdditionalService(nil), inv.Services...)
	return inv
}
