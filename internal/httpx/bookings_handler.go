package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// IdempotencyStore maps an Idempotency-Key header to the booking it created.
// Reserve must be atomic: of several concurrent callers only one gets fresh=true.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bookingID int64, fresh bool, err error)
	Remember(ctx context.Context, key string, bookingID int64) error
	Release(ctx context.Context, key string) error
}

type BookingsHandler struct {
	Service     *booking.Service
	Idempotency IdempotencyStore // optional
	Log         *slog.Logger
}

type CreateBookingReq struct {
	GuestID      string `json:"guestId" validate:"required"`
	RoomID       int64  `json:"roomId" validate:"required,gt=0"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
}

type UpdateBookingReq struct {
	RoomID       *int64  `json:"roomId" validate:"omitempty,gt=0"`
	CheckInDate  *string `json:"checkInDate"`
	CheckOutDate *string `json:"checkOutDate"`
	Status       *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED CHECKED_IN CHECKED_OUT"`
}

type BookingResp struct {
	ID           int64           `json:"id"`
	GuestID      string          `json:"guestId"`
	RoomID       int64           `json:"roomId"`
	CheckInDate  string          `json:"checkInDate"`
	CheckOutDate string          `json:"checkOutDate"`
	Status       booking.Status  `json:"status"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (h *BookingsHandler) Register(r chi.Router) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/", h.createBooking)
		r.Get("/", h.listBookings)
		r.Get("/{id}", h.getBooking)
		r.Put("/{id}", h.updateBooking)
		r.Delete("/{id}", h.deleteBooking)
	})
}

func (h *BookingsHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingReq
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	checkIn, err := parseDate("checkInDate", req.CheckInDate)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	checkOut, err := parseDate("checkOutDate", req.CheckOutDate)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	idemKey := r.Header.Get("Idempotency-Key")
	reserved := false
	if idemKey != "" && h.Idempotency != nil {
		prev, fresh, err := h.Idempotency.Reserve(ctx, idemKey)
		switch {
		case err != nil:
			h.logger().Warn("idempotency reserve failed", "err", err)
		case fresh:
			reserved = true
		case prev > 0:
			writeJSON(w, http.StatusOK, prev)
			return
		default:
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a request with this Idempotency-Key is in progress"})
			return
		}
	}

	id, err := h.Service.Create(ctx, booking.CreateInput{
		GuestID:  req.GuestID,
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		if reserved {
			if rerr := h.Idempotency.Release(ctx, idemKey); rerr != nil {
				h.logger().Warn("idempotency release failed", "err", rerr)
			}
		}
		writeError(w, h.Log, err)
		return
	}

	if reserved {
		if err := h.Idempotency.Remember(ctx, idemKey, id); err != nil {
			h.logger().Warn("idempotency remember failed", "booking_id", id, "err", err)
		}
	}
	writeJSON(w, http.StatusCreated, id)
}

func (h *BookingsHandler) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	var req UpdateBookingReq
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	in := booking.UpdateInput{RoomID: req.RoomID}
	if req.CheckInDate != nil {
		t, err := parseDate("checkInDate", *req.CheckInDate)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		in.CheckIn = &t
	}
	if req.CheckOutDate != nil {
		t, err := parseDate("checkOutDate", *req.CheckOutDate)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		in.CheckOut = &t
	}
	if req.Status != nil {
		s := booking.Status(*req.Status)
		in.Status = &s
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Service.Update(ctx, id, in); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *BookingsHandler) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *BookingsHandler) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	b, err := h.Service.Get(ctx, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResp(b))
}

func (h *BookingsHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	bs, err := h.Service.List(ctx, r.URL.Query().Get("guestId"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	out := make([]BookingResp, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingResp(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BookingsHandler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func toBookingResp(b booking.Booking) BookingResp {
	return BookingResp{
		ID:           b.ID,
		GuestID:      b.GuestID,
		RoomID:       b.RoomID,
		CheckInDate:  b.CheckIn.Format(dateLayout),
		CheckOutDate: b.CheckOut.Format(dateLayout),
		Status:       b.Status,
		TotalPrice:   b.TotalPrice,
		CreatedAt:    b.CreatedAt,
	}
}
