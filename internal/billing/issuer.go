package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
)

type BookingReader interface {
	Get(ctx context.Context, id int64) (booking.Booking, error)
}

// Issuer creates invoices from the stored booking total. It does not reprice
// the stay and does not stop a booking from being invoiced more than once.
type Issuer struct {
	Bookings BookingReader
	Store    Store
	Events   booking.Publisher // optional
	Log      *slog.Logger      // optional
	Now      func() time.Time  // optional
}

func (i *Issuer) Issue(ctx context.Context, bookingID int64, services []AdditionalService) (int64, error) {
	if bookingID <= 0 {
		return 0, fmt.Errorf("%w: booking id must be positive", booking.ErrValidation)
	}
	for _, s := range services {
		if s.Name == "" || s.Price.IsNegative() {
			return 0, fmt.Errorf("%w: service lines need a name and a non-negative price", booking.ErrValidation)
		}
	}

	b, err := i.Bookings.Get(ctx, bookingID)
	if err != nil {
		return 0, err
	}

	inv := Invoice{
		IssuedAt:  i.now(),
		Amount:    b.TotalPrice,
		BookingID: b.ID,
		Services:  services,
	}
	if err := i.Store.Insert(ctx, &inv); err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}

	i.logger().Info("invoice issued", "invoice_id", inv.ID, "booking_id", b.ID, "amount", inv.Amount.String())
	booking.Emit(ctx, i.Events, i.logger(), booking.TopicInvoiceIssued, booking.EventInvoiceIssued, b.ID, booking.InvoiceIssuedPayload{
		InvoiceID: inv.ID,
		BookingID: b.ID,
		GuestID:   b.GuestID,
		Amount:    inv.Amount.String(),
	})
	return inv.ID, nil
}

func (i *Issuer) List(ctx context.Context) ([]Invoice, error) {
	return i.Store.List(ctx)
}

func (i *Issuer) ListByBooking(ctx context.Context, bookingID int64) ([]Invoice, error) {
	return i.Store.ListByBooking(ctx, bookingID)
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

func (i *Issuer) logger() *slog.Logger {
	if i.Log != nil {
		return i.Log
	}
	return slog.Default()
}
