// Package memory implements the ledger store in memory. It backs unit
// tests and local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/petrunov/gs-peachtree-bank/internal/models"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

// Store keeps accounts and transactions in maps guarded by one mutex. The
// mutex is held for the whole of a scoped transaction, so concurrent
// transfers are fully serialized and readers only ever observe committed
// state.
type Store struct {
	mu                sync.Mutex
	accounts          map[int64]*models.Account
	transactions      map[int64]*models.Transaction
	nextAccountID     int64
	nextTransactionID int64
}

func NewStore() *Store {
	return &Store{
		accounts:          make(map[int64]*models.Account),
		transactions:      make(map[int64]*models.Transaction),
		nextAccountID:     1,
		nextTransactionID: 1,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// WithinTx runs fn against a staging area; nothing reaches the maps until
// fn returns nil and the context is still live. A panic is recovered after
// the staged writes are discarded. A call made with a context already
// inside a scope joins that scope rather than re-locking the mutex, so
// commit and rollback stay with the outermost call.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) (err error) {
	if open, ok := storage.TxFromContext(ctx); ok {
		return fn(ctx, open)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:        s,
		accounts:     make(map[int64]*models.Account),
		stateUpdates: make(map[int64]*models.Transaction),
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", storage.ErrTxPanic, p)
		}
	}()

	if err = fn(storage.ContextWithTx(ctx, tx), tx); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (s *Store) ListAccounts(ctx context.Context, opts storage.ListOptions) ([]models.Account, error) {
	opts = opts.Normalize("account_number", "asc")

	s.mu.Lock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, *account)
	}
	s.mu.Unlock()

	sort.Slice(accounts, func(i, j int) bool {
		var less bool
		switch opts.SortBy {
		case "account_name":
			less = accounts[i].AccountName < accounts[j].AccountName
		case "created_at":
			less = accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		default:
			less = accounts[i].AccountNumber < accounts[j].AccountNumber
		}
		if opts.SortOrder == "desc" {
			return !less
		}
		return less
	})

	return page(accounts, opts.Limit, opts.Offset), nil
}

func (s *Store) SearchAccounts(ctx context.Context, query string, limit, offset int) ([]models.Account, error) {
	opts := storage.ListOptions{Limit: limit, Offset: offset}.Normalize("account_number", "asc")
	needle := strings.ToLower(query)

	s.mu.Lock()
	var accounts []models.Account
	for _, account := range s.accounts {
		if strings.Contains(strings.ToLower(account.AccountName), needle) ||
			strings.Contains(strings.ToLower(account.AccountNumber), needle) {
			accounts = append(accounts, *account)
		}
	}
	s.mu.Unlock()

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})

	return page(accounts, opts.Limit, opts.Offset), nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", storage.ErrTransactionNotFound, id)
	}
	copied := *transaction
	return &copied, nil
}

func (s *Store) ListTransactions(ctx context.Context, opts storage.ListOptions) ([]models.Transaction, error) {
	opts = opts.Normalize("date", "desc")
	needle := strings.ToLower(opts.Search)

	s.mu.Lock()
	transactions := make([]models.Transaction, 0, len(s.transactions))
	for _, transaction := range s.transactions {
		if needle != "" &&
			!strings.Contains(strings.ToLower(transaction.Beneficiary), needle) &&
			!strings.Contains(strings.ToLower(transaction.Description), needle) {
			continue
		}
		transactions = append(transactions, *transaction)
	}
	s.mu.Unlock()

	sort.Slice(transactions, func(i, j int) bool {
		var less bool
		switch opts.SortBy {
		case "amount":
			less = transactions[i].Amount.LessThan(transactions[j].Amount)
		case "beneficiary":
			less = transactions[i].Beneficiary < transactions[j].Beneficiary
		default:
			if transactions[i].Date.Equal(transactions[j].Date) {
				less = transactions[i].ID < transactions[j].ID
			} else {
				less = transactions[i].Date.Before(transactions[j].Date)
			}
		}
		if opts.SortOrder == "desc" {
			return !less
		}
		return less
	})

	return page(transactions, opts.Limit, opts.Offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// memTx stages writes made inside one scoped transaction.
type memTx struct {
	store        *Store
	accounts     map[int64]*models.Account
	created      []*models.Transaction
	stateUpdates map[int64]*models.Transaction
}

func (t *memTx) GetAccountForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	if staged, ok := t.accounts[id]; ok {
		copied := *staged
		return &copied, nil
	}
	account, ok := t.store.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, id)
	}
	copied := *account
	return &copied, nil
}

func (t *memTx) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = t.store.nextAccountID
	t.store.nextAccountID++
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	copied := *account
	t.accounts[account.ID] = &copied
	return nil
}

func (t *memTx) SaveAccount(ctx context.Context, account *models.Account) error {
	if _, ok := t.accounts[account.ID]; !ok {
		if _, ok := t.store.accounts[account.ID]; !ok {
			return fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, account.ID)
		}
	}
	account.UpdatedAt = time.Now().UTC()
	copied := *account
	t.accounts[account.ID] = &copied
	return nil
}

func (t *memTx) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	transaction.ID = t.store.nextTransactionID
	t.store.nextTransactionID++
	now := time.Now().UTC()
	if transaction.Date.IsZero() {
		transaction.Date = now
	}
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	copied := *transaction
	t.created = append(t.created, &copied)
	return nil
}

func (t *memTx) UpdateTransactionState(ctx context.Context, id int64, state models.TransactionState) (*models.Transaction, error) {
	transaction, ok := t.stateUpdates[id]
	if !ok {
		committed, exists := t.store.transactions[id]
		if !exists {
			return nil, fmt.Errorf("%w: id %d", storage.ErrTransactionNotFound, id)
		}
		copied := *committed
		transaction = &copied
	}

	transaction.State = state
	transaction.UpdatedAt = time.Now().UTC()
	t.stateUpdates[id] = transaction

	copied := *transaction
	return &copied, nil
}

func (t *memTx) commit() {
	for id, account := range t.accounts {
		t.store.accounts[id] = account
	}
	for _, transaction := range t.created {
		t.store.transactions[transaction.ID] = transaction
	}
	for id, transaction := range t.stateUpdates {
		t.store.transactions[id] = transaction
	}
}

var _ storage.Store = (*Store)(nil)
var _ storage.Tx = (*memTx)(nil)
