package booking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/obs"
	"github.com/google/uuid"
)

const (
	EventBookingCreated = "BookingCreated"
	EventBookingUpdated = "BookingUpdated"
	EventBookingDeleted = "BookingDeleted"
	EventInvoiceIssued  = "InvoiceIssued"
)

const dateLayout = "2006-01-02"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // booking id
	Payload       json.RawMessage `json:"payload"`
}

type BookingPayload struct {
	BookingID    int64  `json:"booking_id"`
	GuestID      string `json:"guest_id"`
	RoomID       int64  `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Status       Status `json:"status"`
	TotalPrice   string `json:"total_price"`
	Repriced     bool   `json:"repriced,omitempty"`
}

type BookingDeletedPayload struct {
	BookingID int64  `json:"booking_id"`
	GuestID   string `json:"guest_id"`
}

type InvoiceIssuedPayload struct {
	InvoiceID int64  `json:"invoice_id"`
	BookingID int64  `json:"booking_id"`
	GuestID   string `json:"guest_id"`
	Amount    string `json:"amount"`
}

// Publisher is fire-and-forget: a failed publish never fails the operation that produced it.
type Publisher interface {
	Publish(ctx context.Context, topic string, env Envelope)
}

func NewEnvelope(ctx context.Context, eventType string, bookingID int64, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		TraceID:       obs.RequestID(ctx),
		CorrelationID: PartitionKey(bookingID),
		Payload:       raw,
	}, nil
}

// Emit wraps payload in an envelope and hands it to pub. A nil pub is a no-op;
// an envelope that cannot be built is logged and dropped.
func Emit(ctx context.Context, pub Publisher, log *slog.Logger, topic, eventType string, bookingID int64, payload any) {
	if pub == nil {
		return
	}
	env, err := NewEnvelope(ctx, eventType, bookingID, payload)
	if err != nil {
		log.Error("build event", "event_type", eventType, "booking_id", bookingID, "err", err)
		return
	}
	pub.Publish(ctx, topic, env)
}

func payloadOf(b Booking, repriced bool) BookingPayload {
	return BookingPayload{
		BookingID:    b.ID,
		GuestID:      b.GuestID,
		RoomID:       b.RoomID,
		CheckInDate:  b.CheckIn.Format(dateLayout),
		CheckOutDate: b.CheckOut.Format(dateLayout),
		Status:       b.Status,
		TotalPrice:   b.TotalPrice.String(),
		Repriced:     repriced,
	}
}
