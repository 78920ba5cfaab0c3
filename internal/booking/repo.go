package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PGStore keeps bookings in Postgres. Money travels as text to stay exact.
type PGStore struct{ DB *pgxpool.Pool }

const bookingColumns = `id, guest_id, room_id, check_in, check_out, status, total_price::text, created_at, updated_at`

func (s *PGStore) Insert(ctx context.Context, b *Booking) error {
	return s.DB.QueryRow(ctx, `
		INSERT INTO bookings(guest_id, room_id, check_in, check_out, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $7)
		RETURNING id`,
		b.GuestID, b.RoomID, b.CheckIn, b.CheckOut, string(b.Status), b.TotalPrice.String(), b.CreatedAt,
	).Scan(&b.ID)
}

func (s *PGStore) Get(ctx context.Context, id int64) (Booking, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return b, err
}

func (s *PGStore) List(ctx context.Context) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *PGStore) ListByGuest(ctx context.Context, guestID string) ([]Booking, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_id=$1 ORDER BY id`, guestID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Update writes every mutable column in one statement, so a reconciled price
// and the fields it was derived from always land together.
func (s *PGStore) Update(ctx context.Context, b Booking) error {
	ct, err := s.DB.Exec(ctx, `
		UPDATE bookings
		SET room_id=$2, check_in=$3, check_out=$4, status=$5, total_price=$6::numeric, updated_at=$7
		WHERE id=$1`,
		b.ID, b.RoomID, b.CheckIn, b.CheckOut, string(b.Status), b.TotalPrice.String(), b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("booking %d: %w", b.ID, ErrNotFound)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id int64) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return nil
}

func collect(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (Booking, error) {
	var (
		b      Booking
		status string
		total  string
	)
	if err := row.Scan(&b.ID, &b.GuestID, &b.RoomID, &b.CheckIn, &b.CheckOut, &status, &total, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Booking{}, err
	}
	b.Status = Status(status)
	price, err := decimal.NewFromString(total)
	if err != nil {
		return Booking{}, fmt.Errorf("booking %d: total_price %q: %w", b.ID, total, err)
	}
	b.TotalPrice = price
	b.CheckIn = DateOnly(b.CheckIn)
	b.CheckOut = DateOnly(b.CheckOut)
	return b, nil
}
