package rooms

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrRoomNotFound = errors.New("room not found")

// Room is the slice of the inventory record exposed to other services.
type Room struct {
	ID            int64           `json:"id"`
	RoomNumber    string          `json:"roomNumber"`
	Type          string          `json:"type"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
}

// PriceView is what the booking side reads from the inventory service.
// NightlyPrice is invalid when the inventory answered with a null price.
type PriceView struct {
	RoomID       int64
	NightlyPrice decimal.NullDecimal
}
