// Package postgres implements the ledger store on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/petrunov/gs-peachtree-bank/internal/models"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

const maxOpenConns = 25

// Store is the PostgreSQL-backed ledger store. Row-level locks taken with
// SELECT ... FOR UPDATE serialize balance updates per account.
type Store struct {
	db *sql.DB
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithinTx runs fn inside one database transaction. The deferred rollback
// is a no-op after a successful commit; it fires on error, panic and
// context cancellation, so no exit path can retain partial writes. A call
// made with a context already inside a scope joins the open transaction
// instead of beginning a second one, so commit and rollback stay with the
// outermost call.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) (err error) {
	if open, ok := storage.TxFromContext(ctx); ok {
		return fn(ctx, open)
	}

	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = dbTx.Rollback()
			err = fmt.Errorf("%w: %v", storage.ErrTxPanic, p)
			return
		}
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	tx := &pgTx{tx: dbTx}
	if err = fn(storage.ContextWithTx(ctx, tx), tx); err != nil {
		return err
	}
	return dbTx.Commit()
}

const accountColumns = `id, account_number, account_name, balance, currency, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.AccountNumber, &a.AccountName, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context, opts storage.ListOptions) ([]models.Account, error) {
	opts = opts.Normalize("account_number", "asc")

	sortColumn := "account_number"
	switch opts.SortBy {
	case "account_name":
		sortColumn = "account_name"
	case "created_at":
		sortColumn = "created_at"
	}
	order := "ASC"
	if opts.SortOrder == "desc" {
		order = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM accounts ORDER BY %s %s LIMIT $1 OFFSET $2`,
		accountColumns, sortColumn, order,
	)

	rows, err := s.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (s *Store) SearchAccounts(ctx context.Context, query string, limit, offset int) ([]models.Account, error) {
	opts := storage.ListOptions{Limit: limit, Offset: offset}.Normalize("account_number", "asc")

	q := `SELECT ` + accountColumns + ` FROM accounts
		WHERE account_name ILIKE $1 OR account_number ILIKE $1
		ORDER BY account_number ASC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, q, "%"+query+"%", opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]models.Account, error) {
	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

const transactionColumns = `id, date, amount, from_account_id, to_account_id, beneficiary, description, state, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.Date, &t.Amount, &t.FromAccountID, &t.ToAccountID,
		&t.Beneficiary, &t.Description, &t.State, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	transaction, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", storage.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return transaction, nil
}

func (s *Store) ListTransactions(ctx context.Context, opts storage.ListOptions) ([]models.Transaction, error) {
	opts = opts.Normalize("date", "desc")

	sortColumn := "date"
	switch opts.SortBy {
	case "amount":
		sortColumn = "amount"
	case "beneficiary":
		sortColumn = "beneficiary"
	}
	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}

	args := []any{opts.Limit, opts.Offset}
	where := ""
	if opts.Search != "" {
		where = ` WHERE beneficiary ILIKE $3 OR description ILIKE $3`
		args = append(args, "%"+opts.Search+"%")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM transactions%s ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`,
		transactionColumns, where, sortColumn, order, order,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// pgTx exposes mutations against one open database transaction.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) GetAccountForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(t.tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return account, nil
}

func (t *pgTx) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (account_number, account_name, balance, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		account.AccountNumber, account.AccountName, account.Balance, account.Currency,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (t *pgTx) SaveAccount(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`

	err := t.tx.QueryRowContext(ctx, query, account.Balance, account.ID).Scan(&account.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: id %d", storage.ErrAccountNotFound, account.ID)
	}
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (t *pgTx) SaveTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `INSERT INTO transactions (date, amount, from_account_id, to_account_id, beneficiary, description, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		transaction.Date, transaction.Amount, transaction.FromAccountID, transaction.ToAccountID,
		transaction.Beneficiary, transaction.Description, transaction.State,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateTransactionState(ctx context.Context, id int64, state models.TransactionState) (*models.Transaction, error) {
	query := `UPDATE transactions SET state = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + transactionColumns

	transaction, err := scanTransaction(t.tx.QueryRowContext(ctx, query, state, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", storage.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update transaction state: %w", err)
	}
	return transaction, nil
}

var _ storage.Store = (*Store)(nil)
var _ storage.Tx = (*pgTx)(nil)
