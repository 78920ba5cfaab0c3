package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/rooms"
	"github.com/shopspring/decimal"
)

// PriceSource answers with the current nightly rate of a room.
type PriceSource interface {
	RoomPrice(ctx context.Context, roomID int64) (rooms.PriceView, error)
}

// Service runs the booking lifecycle. A booking's TotalPrice is only ever
// written together with a rate fetched from Prices during the same call.
type Service struct {
	Store  Store
	Prices PriceSource
	Events Publisher        // optional
	Log    *slog.Logger     // optional
	Now    func() time.Time // optional, defaults to time.Now
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	if err := validateCreate(in); err != nil {
		return 0, err
	}
	checkIn, checkOut := DateOnly(in.CheckIn), DateOnly(in.CheckOut)

	rate, err := s.nightlyRate(ctx, in.RoomID)
	if err != nil {
		s.logger().Warn("booking not created: price lookup failed", "room_id", in.RoomID, "guest_id", in.GuestID, "err", err)
		return 0, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	now := s.now()
	b := Booking{
		GuestID:    in.GuestID,
		RoomID:     in.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     StatusPending,
		TotalPrice: ComputeTotal(rate, checkIn, checkOut),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Insert(ctx, &b); err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}

	s.logger().Info("booking created", "booking_id", b.ID, "room_id", b.RoomID, "nights", Nights(checkIn, checkOut), "total", b.TotalPrice.String())
	s.publish(ctx, TopicBookingCreated, EventBookingCreated, b.ID, payloadOf(b, true))
	return b.ID, nil
}

// Update applies the given changes. When room or dates are part of the
// change the price is re-fetched and recomputed; if that fails nothing is written.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	if err := validateUpdate(in); err != nil {
		return err
	}
	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}

	next := cur
	if in.RoomID != nil {
		next.RoomID = *in.RoomID
	}
	if in.CheckIn != nil {
		next.CheckIn = DateOnly(*in.CheckIn)
	}
	if in.CheckOut != nil {
		next.CheckOut = DateOnly(*in.CheckOut)
	}
	if in.Status != nil {
		next.Status = *in.Status
	}

	repriced := in.touchesPrice()
	if repriced {
		rate, err := s.nightlyRate(ctx, next.RoomID)
		if err != nil {
			s.logger().Warn("booking not updated: price reconciliation failed", "booking_id", id, "room_id", next.RoomID, "err", err)
			return fmt.Errorf("%w: booking %d: %w", ErrPriceReconciliationFailed, id, err)
		}
		next.TotalPrice = ComputeTotal(rate, next.CheckIn, next.CheckOut)
	}
	next.UpdatedAt = s.now()

	if err := s.Store.Update(ctx, next); err != nil {
		return err
	}

	s.logger().Info("booking updated", "booking_id", id, "status", next.Status, "repriced", repriced, "total", next.TotalPrice.String())
	s.publish(ctx, TopicBookingUpdated, EventBookingUpdated, id, payloadOf(next, repriced))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("booking deleted", "booking_id", id)
	s.publish(ctx, TopicBookingDeleted, EventBookingDeleted, id, BookingDeletedPayload{BookingID: id, GuestID: cur.GuestID})
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (Booking, error) {
	return s.Store.Get(ctx, id)
}

// List returns all bookings in insertion order, or only guestID's when it is non-empty.
func (s *Service) List(ctx context.Context, guestID string) ([]Booking, error) {
	if guestID != "" {
		return s.Store.ListByGuest(ctx, guestID)
	}
	return s.Store.List(ctx)
}

var errNoUsablePrice = errors.New("no usable nightly price")

func (s *Service) nightlyRate(ctx context.Context, roomID int64) (decimal.Decimal, error) {
	view, err := s.Prices.RoomPrice(ctx, roomID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !view.NightlyPrice.Valid || view.NightlyPrice.Decimal.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("room %d: %w", roomID, errNoUsablePrice)
	}
	return view.NightlyPrice.Decimal, nil
}

func (s *Service) publish(ctx context.Context, topic, eventType string, bookingID int64, payload any) {
	Emit(ctx, s.Events, s.logger(), topic, eventType, bookingID, payload)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func validateCreate(in CreateInput) error {
	switch {
	case in.GuestID == "":
		return fmt.Errorf("%w: guest id is required", ErrValidation)
	case in.RoomID <= 0:
		return fmt.Errorf("%w: room id must be positive", ErrValidation)
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	return nil
}

func validateUpdate(in UpdateInput) error {
	switch {
	case in.RoomID != nil && *in.RoomID <= 0:
		return fmt.Errorf("%w: room id must be positive", ErrValidation)
	case in.CheckIn != nil && in.CheckIn.IsZero(), in.CheckOut != nil && in.CheckOut.IsZero():
		return fmt.Errorf("%w: dates must not be empty", ErrValidation)
	case in.Status != nil && !in.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
	}
	return nil
}
