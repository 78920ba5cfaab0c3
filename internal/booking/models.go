package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         int64
	GuestID    string
	RoomID     int64
	CheckIn    time.Time // calendar date, UTC midnight
	CheckOut   time.Time
	Status     Status
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateInput struct {
	GuestID  string
	RoomID   int64
	CheckIn  time.Time
	CheckOut time.Time
}

// UpdateInput carries optional changes; nil fields are left alone.
type UpdateInput struct {
	RoomID   *int64
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   *Status
}

func (in UpdateInput) touchesPrice() bool {
	return in.RoomID != nil || in.CheckIn != nil || in.CheckOut != nil
}

// DateOnly drops the clock and zone, keeping the calendar date as written.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
