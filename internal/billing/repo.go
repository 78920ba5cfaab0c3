package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PGStore struct{ DB *pgxpool.Pool }

func (s *PGStore) Insert(ctx context.Context, inv *Invoice) error {
	services := inv.Services
	if services == nil {
		services = []AdditionalService{}
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return err
	}
	return s.DB.QueryRow(ctx, `
		INSERT INTO invoices(booking_id, issued_at, amount, services)
		VALUES ($1, $2, $3::numeric, $4::jsonb)
		RETURNING id`,
		inv.BookingID, inv.IssuedAt, inv.Amount.String(), string(raw),
	).Scan(&inv.ID)
}

func (s *PGStore) List(ctx context.Context) ([]Invoice, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, booking_id, issued_at, amount::text, services
		FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *PGStore) ListByBooking(ctx context.Context, bookingID int64) ([]Invoice, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, booking_id, issued_at, amount::text, services
		FROM invoices WHERE booking_id=$1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Invoice, error) {
	defer rows.Close()
	out := []Invoice{}
	for rows.Next() {
		var (
			inv      Invoice
			amount   string
			services []byte
		)
		if err := rows.Scan(&inv.ID, &inv.BookingID, &inv.IssuedAt, &amount, &services); err != nil {
			return nil, err
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invoice %d: amount %q: %w", inv.ID, amount, err)
		}
		inv.Amount = a
		if err := json.Unmarshal(services, &inv.Services); err != nil {
			return nil, fmt.Errorf("invoice %d: services: %w", inv.ID, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
