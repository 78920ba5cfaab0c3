package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-hotel-reservations/internal/billing"
	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type InvoicesHandler struct {
	Issuer *billing.Issuer
	Log    *slog.Logger
}

type ServiceLineReq struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type CreateInvoiceReq struct {
	BookingID int64            `json:"bookingId" validate:"required,gt=0"`
	Services  []ServiceLineReq `json:"services" validate:"dive"`
}

type InvoiceResp struct {
	ID        int64                       `json:"id"`
	IssueDate time.Time                   `json:"issueDate"`
	Amount    decimal.Decimal             `json:"amount"`
	BookingID int64                       `json:"bookingId"`
	Services  []billing.AdditionalService `json:"services"`
}

func (h *InvoicesHandler) Register(r chi.Router) {
	r.Post("/api/invoices", h.createInvoice)
	r.Get("/api/invoices", h.listInvoices)
}

func (h *InvoicesHandler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceReq
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	lines := make([]billing.AdditionalService, 0, len(req.Services))
	for _, s := range req.Services {
		lines = append(lines, billing.AdditionalService{Name: s.Name, Price: s.Price})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Issuer.Issue(ctx, req.BookingID, lines)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, id)
}

// listInvoices returns every invoice, or those of ?bookingId= when given.
func (h *InvoicesHandler) listInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		invs []billing.Invoice
		err  error
	)
	if raw := r.URL.Query().Get("bookingId"); raw != "" {
		bookingID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": booking.ErrValidation.Error() + ": invalid bookingId"})
			return
		}
		invs, err = h.Issuer.ListByBooking(ctx, bookingID)
	} else {
		invs, err = h.Issuer.List(ctx)
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	out := make([]InvoiceResp, 0, len(invs))
	for _, inv := range invs {
		services := inv.Services
		if services == nil {
			services = []billing.AdditionalService{}
		}
		out = append(out, InvoiceResp{
			ID:        inv.ID,
			IssueDate: inv.IssuedAt,
			Amount:    inv.Amount,
			BookingID: inv.BookingID,
			Services:  services,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
