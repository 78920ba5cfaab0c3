package booking

import "context"

// Store owns Booking records. Every write is atomic: it either lands whole or not at all.
// Get, Update and Delete return ErrNotFound for unknown ids.
type Store interface {
	Insert(ctx context.Context, b *Booking) error // assigns ID
	Get(ctx context.Context, id int64) (Booking, error)
	List(ctx context.Context) ([]Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]Booking, error)
	Update(ctx context.Context, b Booking) error
	Delete(ctx context.Context, id int64) error
}
