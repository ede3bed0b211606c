package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a balance-holding entity identified by a unique account number.
// The balance is a fixed-point decimal and must never go negative; only the
// ledger engine mutates it, inside a store transaction.
type Account struct {
	ID            int64
	AccountNumber string
	AccountName   string
	Balance       decimal.Decimal
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
