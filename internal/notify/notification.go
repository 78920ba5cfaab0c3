package notify

import (
	"fmt"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	kafkax "github.com/ariefcatur/go-hotel-reservations/internal/kafka"
)

const (
	TypeSuccess = "success"
	TypeInfo    = "info"
	TypeWarning = "warning"
)

type Notification struct {
	ID      string    `json:"id"` // source event id
	GuestID string    `json:"guestId,omitempty"`
	Text    string    `json:"text"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
}

// Render turns a booking event into a feed entry. ok is false for event
// types the feed does not show.
func Render(env booking.Envelope) (n Notification, ok bool, err error) {
	n = Notification{ID: env.EventID, Time: env.OccurredAt}

	switch env.EventType {
	case booking.EventBookingCreated:
		p, err := kafkax.UnwrapPayload[booking.BookingPayload](env.Payload)
		if err != nil {
			return Notification{}, false, err
		}
		n.GuestID, n.Type = p.GuestID, TypeSuccess
		n.Text = fmt.Sprintf("Booking #%d created for guest %s: room %d, %s to %s, total %s",
			p.BookingID, p.GuestID, p.RoomID, p.CheckInDate, p.CheckOutDate, p.TotalPrice)

	case booking.EventBookingUpdated:
		p, err := kafkax.UnwrapPayload[booking.BookingPayload](env.Payload)
		if err != nil {
			return Notification{}, false, err
		}
		n.GuestID, n.Type = p.GuestID, TypeInfo
		if p.Status == booking.StatusCancelled {
			n.Type = TypeWarning
		}
		n.Text = fmt.Sprintf("Booking #%d is now %s", p.BookingID, p.Status)
		if p.Repriced {
			n.Text += fmt.Sprintf(" (room %d, %s to %s, new total %s)", p.RoomID, p.CheckInDate, p.CheckOutDate, p.TotalPrice)
		}

	case booking.EventBookingDeleted:
		p, err := kafkax.UnwrapPayload[booking.BookingDeletedPayload](env.Payload)
		if err != nil {
			return Notification{}, false, err
		}
		n.GuestID, n.Type = p.GuestID, TypeWarning
		n.Text = fmt.Sprintf("Booking #%d was deleted", p.BookingID)

	case booking.EventInvoiceIssued:
		p, err := kafkax.UnwrapPayload[booking.InvoiceIssuedPayload](env.Payload)
		if err != nil {
			return Notification{}, false, err
		}
		n.GuestID, n.Type = p.GuestID, TypeSuccess
		n.Text = fmt.Sprintf("Invoice #%d issued for booking #%d: %s", p.InvoiceID, p.BookingID, p.Amount)

	default:
		return Notification{}, false, nil
	}
	return n, true, nil
}
