package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing snapshot of a booking's total. It is never mutated.
type Invoice struct {
	ID        int64
	IssuedAt  time.Time
	Amount    decimal.Decimal
	BookingID int64
	Services  []AdditionalService
}

// AdditionalService is an informational line item; it does not change Amount.
type AdditionalService struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
