// Package storage defines the ledger store contract shared by the postgres
// and in-memory implementations.
package storage

import (
	"context"
	"errors"

	"github.com/petrunov/gs-peachtree-bank/internal/models"
)

var (
	// ErrAccountNotFound is wrapped by store lookups for missing accounts.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound is wrapped by store lookups for missing transactions.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTxPanic wraps a panic recovered inside a scoped transaction, after
	// the transaction has been rolled back.
	ErrTxPanic = errors.New("panic inside transaction")
)

// MaxPageSize is the hard cap on every list operation. Limits beyond the
// cap are clamped, not rejected.
const MaxPageSize = 100

// ListOptions carries pagination, ordering and an optional search filter
// for list queries.
type ListOptions struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
	Search    string
}

// Normalize clamps the limit to MaxPageSize, floors the offset at zero and
// fills the given ordering defaults.
func (o ListOptions) Normalize(defaultSortBy, defaultSortOrder string) ListOptions {
	if o.Limit <= 0 || o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.SortBy == "" {
		o.SortBy = defaultSortBy
	}
	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		o.SortOrder = defaultSortOrder
	}
	return o
}

type txContextKey struct{}

// ContextWithTx marks ctx as running inside the given scoped transaction.
// Store implementations attach it to the context handed to the scope
// function so nested WithinTx calls can find the open transaction.
func ContextWithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext reports the open scoped transaction, if any.
func TxFromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(Tx)
	return tx, ok
}

// Store is the durable persistence layer for accounts and transactions.
// Read methods outside a transaction observe committed state only. All
// mutation goes through WithinTx.
type Store interface {
	// WithinTx brackets fn in a scoped transaction: commit when fn returns
	// nil, roll back on error, panic or context cancellation. The underlying
	// connection is released on every exit path. A recovered panic surfaces
	// as an error wrapping ErrTxPanic. fn receives a context carrying the
	// open transaction; a WithinTx call with such a context joins the outer
	// scope instead of opening its own, so nothing an inner scope writes is
	// retained unless the outermost scope commits.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context, opts ListOptions) ([]models.Account, error)
	SearchAccounts(ctx context.Context, query string, limit, offset int) ([]models.Account, error)

	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, opts ListOptions) ([]models.Transaction, error)

	Ping(ctx context.Context) error
}

// Tx is the set of operations available inside a scoped transaction.
// Keeping mutations on this interface, and not on Store, makes writing
// outside a transaction impossible rather than merely forbidden.
type Tx interface {
	// GetAccountForUpdate reads an account and serializes concurrent
	// transfers touching it until the transaction ends.
	GetAccountForUpdate(ctx context.Context, id int64) (*models.Account, error)

	// CreateAccount inserts a new account and fills its id and timestamps.
	CreateAccount(ctx context.Context, account *models.Account) error

	// SaveAccount persists an updated balance. It never commits on its own.
	SaveAccount(ctx context.Context, account *models.Account) error

	// SaveTransaction inserts a transaction row and fills its id and
	// timestamps. It never commits on its own.
	SaveTransaction(ctx context.Context, transaction *models.Transaction) error

	// UpdateTransactionState sets the state field of one transaction and
	// returns the updated row.
	UpdateTransactionState(ctx context.Context, id int64, state models.TransactionState) (*models.Transaction, error)
}
