package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a ride was paid.
type PaymentMethod string

const (
	PaymentMethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentMethodBankCard    PaymentMethod = "BANK_CARD"
)

// Payment is keyed by (RideID, UserID); at most one per pair.
type Payment struct {
	ID        string
	UserID    string
	RideID    string
	Amount    decimal.Decimal
	Method    PaymentMethod
	CreatedAt time.Time
}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodMobileMoney || m == PaymentMethodBankCard
}
