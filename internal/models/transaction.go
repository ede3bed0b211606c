package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionState tracks a transfer through its settlement lifecycle.
// Rows are only ever created in StatePending; later transitions are driven
// externally through the state-update operation.
type TransactionState string

const (
	StatePending  TransactionState = "pending"
	StateSent     TransactionState = "sent"
	StateReceived TransactionState = "received"
	StatePaid     TransactionState = "paid"
)

// States lists every valid transaction state, in lifecycle order.
func States() []TransactionState {
	return []TransactionState{StatePending, StateSent, StateReceived, StatePaid}
}

// ParseTransactionState maps a raw string onto the closed state enum.
func ParseTransactionState(s string) (TransactionState, error) {
	switch TransactionState(s) {
	case StatePending, StateSent, StateReceived, StatePaid:
		return TransactionState(s), nil
	}
	return "", fmt.Errorf("state must be one of: pending, sent, received, paid")
}

// Transaction records a committed transfer between two accounts. It
// references the accounts by id only; it does not own them. Once created a
// transaction is immutable except for its state field.
type Transaction struct {
	ID            int64
	Date          time.Time
	Amount        decimal.Decimal
	FromAccountID int64
	ToAccountID   int64
	Beneficiary   string
	Description   string
	State         TransactionState
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
