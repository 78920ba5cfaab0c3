package booking

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a process-local Store that keeps insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	items  []Booking
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Insert(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.items = append(s.items, *b)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], nil
	}
	return Booking{}, fmt.Errorf("booking %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) List(_ context.Context) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Booking{}, s.items...), nil
}

func (s *MemoryStore) ListByGuest(_ context.Context, guestID string) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Booking{}
	for _, b := range s.items {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, b Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(b.ID)
	if i < 0 {
		return fmt.Errorf("booking %d: %w", b.ID, ErrNotFound)
	}
	b.CreatedAt = s.items[i].CreatedAt
	b.GuestID = s.items[i].GuestID
	s.items[i] = b
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// index must be called with mu held.
func (s *MemoryStore) index(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
