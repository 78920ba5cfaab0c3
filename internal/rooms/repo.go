package rooms

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, id int64) (Room, error) {
	var (
		room  Room
		price string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, room_number, type, price_per_night::text
		FROM rooms WHERE id=$1`, id).Scan(&room.ID, &room.RoomNumber, &room.Type, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, ErrRoomNotFound
	}
	if err != nil {
		return Room{}, err
	}
	if room.PricePerNight, err = decimal.NewFromString(price); err != nil {
		return Room{}, err
	}
	return room, nil
}
