package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records how a reservation was paid for.  Card numbers are stored
// masked; only the last four digits ever reach this type.
type Payment struct {
	ID             int64           `json:"id"`
	ReservationID  int64           `json:"reservation_id"`
	PaymentType    string          `json:"payment_type"`
	CardType       string          `json:"card_type,omitempty"`
	CardNumber     string          `json:"card_number,omitempty"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	CardHolderName string          `json:"card_holder_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentDate    time.Time       `json:"payment_date"`
}
