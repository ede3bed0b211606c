// Package events defines the outbound notification contract for committed
// transfers. Publishing is best-effort and happens only after commit; no
// consumer feeds back into ledger state.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransferCommitted is emitted once per committed transfer.
type TransferCommitted struct {
	TransactionID int64           `json:"transaction_id"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Beneficiary   string          `json:"beneficiary"`
	State         string          `json:"state"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event TransferCommitted) error
}

// NopPublisher discards events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event TransferCommitted) error {
	return nil
}

var _ Publisher = NopPublisher{}
