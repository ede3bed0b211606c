// Package ledger contains the transaction engine: it validates transfer
// requests against current account state and applies them atomically
// through the store's scoped transactions.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petrunov/gs-peachtree-bank/internal/apperrors"
	"github.com/petrunov/gs-peachtree-bank/internal/events"
	"github.com/petrunov/gs-peachtree-bank/internal/models"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

// Ledger coordinates the store and the event publisher. It holds no
// mutable state of its own; all shared state lives behind the store.
type Ledger struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
}

func NewLedger(store storage.Store, publisher events.Publisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// TransferInput carries an already-typed transfer request. The engine
// re-validates every business rule regardless of upstream checks.
type TransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Beneficiary   string
	Description   string
}

// Transfer applies a transfer atomically: both accounts are locked in
// ascending id order, the source is debited, the destination credited and
// one pending transaction row created. On any failure nothing written in
// this call is retained. Failures surface immediately; retrying is the
// caller's decision.
func (l *Ledger) Transfer(ctx context.Context, in TransferInput) (*models.Transaction, error) {
	var created *models.Transaction

	err := l.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		from, to, err := l.lockAccounts(ctx, tx, in.FromAccountID, in.ToAccountID)
		if err != nil {
			return err
		}

		if err := validateTransfer(in); err != nil {
			return err
		}

		if from.Balance.LessThan(in.Amount) {
			return apperrors.Validation(
				apperrors.WithMessage("Insufficient funds in source account"),
				apperrors.WithFieldError("amount",
					"Amount exceeds available balance of "+from.Balance.StringFixed(2)),
			)
		}

		from.Balance = from.Balance.Sub(in.Amount)
		to.Balance = to.Balance.Add(in.Amount)

		if err := tx.SaveAccount(ctx, from); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, to); err != nil {
			return err
		}

		created = &models.Transaction{
			Date:          time.Now().UTC(),
			Amount:        in.Amount,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Beneficiary:   in.Beneficiary,
			Description:   in.Description,
			State:         models.StatePending,
		}
		return tx.SaveTransaction(ctx, created)
	})
	if err != nil {
		return nil, l.classify(ctx, err)
	}

	l.logger.InfoContext(ctx, "transfer committed",
		slog.Int64("transaction_id", created.ID),
		slog.Int64("from_account_id", created.FromAccountID),
		slog.Int64("to_account_id", created.ToAccountID),
		slog.String("amount", created.Amount.StringFixed(2)),
	)

	l.publish(ctx, created)
	return created, nil
}

// lockAccounts resolves both accounts under row locks, acquiring them in
// ascending id order so concurrent opposite-direction transfers cannot
// deadlock.
func (l *Ledger) lockAccounts(ctx context.Context, tx storage.Tx, fromID, toID int64) (from, to *models.Account, err error) {
	load := func(id int64) (*models.Account, error) {
		account, err := tx.GetAccountForUpdate(ctx, id)
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, apperrors.ResourceNotFound(
				apperrors.WithMessagef("Account with ID %d not found", id),
				apperrors.WithError(err),
			)
		}
		return account, err
	}

	if fromID == toID {
		// Single lookup; the self-transfer rejection happens in validation.
		from, err = load(fromID)
		return from, from, err
	}

	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := load(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := load(secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

func validateTransfer(in TransferInput) error {
	var opts []apperrors.Option

	if !in.Amount.IsPositive() {
		opts = append(opts, apperrors.WithFieldError("amount", "Amount must be a positive number"))
	} else if in.Amount.Exponent() < -2 {
		opts = append(opts, apperrors.WithFieldError("amount", "Amount cannot have more than 2 decimal places"))
	}
	if in.Beneficiary == "" {
		opts = append(opts, apperrors.WithFieldError("beneficiary", "Beneficiary is required"))
	}
	if in.FromAccountID == in.ToAccountID {
		opts = append(opts, apperrors.WithFieldError("to_account_id", "Destination account must differ from source account"))
	}

	if len(opts) == 0 {
		return nil
	}
	return apperrors.Validation(opts...)
}

func (l *Ledger) publish(ctx context.Context, transaction *models.Transaction) {
	event := events.TransferCommitted{
		TransactionID: transaction.ID,
		FromAccountID: transaction.FromAccountID,
		ToAccountID:   transaction.ToAccountID,
		Amount:        transaction.Amount,
		Beneficiary:   transaction.Beneficiary,
		State:         string(transaction.State),
		OccurredAt:    transaction.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		// The transfer is already committed; a lost notification is not a
		// ledger failure.
		l.logger.WarnContext(ctx, "publish transfer event failed",
			slog.Int64("transaction_id", transaction.ID),
			slog.String("error", err.Error()),
		)
	}
}

// GetAccount returns one account by id.
func (l *Ledger) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	account, err := l.store.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, apperrors.ResourceNotFound(
				apperrors.WithMessagef("Account with ID %d not found", id),
				apperrors.WithError(err),
			)
		}
		return nil, l.classify(ctx, err)
	}
	return account, nil
}

// ListAccounts returns a page of accounts; the page size cap and ordering
// defaults are applied by the store.
func (l *Ledger) ListAccounts(ctx context.Context, opts storage.ListOptions) ([]models.Account, error) {
	accounts, err := l.store.ListAccounts(ctx, opts)
	if err != nil {
		return nil, l.classify(ctx, err)
	}
	return accounts, nil
}

// GetTransaction returns one transaction by id.
func (l *Ledger) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	transaction, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			return nil, apperrors.ResourceNotFound(
				apperrors.WithMessagef("Transaction with ID %d not found", id),
				apperrors.WithError(err),
			)
		}
		return nil, l.classify(ctx, err)
	}
	return transaction, nil
}

// ListTransactions returns a page of transactions, newest first by default.
func (l *Ledger) ListTransactions(ctx context.Context, opts storage.ListOptions) ([]models.Transaction, error) {
	transactions, err := l.store.ListTransactions(ctx, opts)
	if err != nil {
		return nil, l.classify(ctx, err)
	}
	return transactions, nil
}

// UpdateTransactionState sets the state of an existing transaction. The
// engine validates the target state against the closed enum but enforces no
// ordering between states; settlement progression is externally driven.
func (l *Ledger) UpdateTransactionState(ctx context.Context, id int64, state string) (*models.Transaction, error) {
	parsed, err := models.ParseTransactionState(state)
	if err != nil {
		return nil, apperrors.Validation(apperrors.WithFieldError("state", "State must be one of: pending, sent, received, paid"))
	}

	var updated *models.Transaction
	err = l.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		updated, err = tx.UpdateTransactionState(ctx, id, parsed)
		if errors.Is(err, storage.ErrTransactionNotFound) {
			return apperrors.ResourceNotFound(
				apperrors.WithMessagef("Transaction with ID %d not found", id),
				apperrors.WithError(err),
			)
		}
		return err
	})
	if err != nil {
		return nil, l.classify(ctx, err)
	}
	return updated, nil
}

// SearchResult groups the account and transaction matches of one query.
type SearchResult struct {
	Accounts     []models.Account
	Transactions []models.Transaction
}

// Search matches accounts by name or number and transactions by
// beneficiary or description. Both lists obey the standard page cap.
func (l *Ledger) Search(ctx context.Context, query string, limit, offset int) (*SearchResult, error) {
	accounts, err := l.store.SearchAccounts(ctx, query, limit, offset)
	if err != nil {
		return nil, l.classify(ctx, err)
	}

	transactions, err := l.store.ListTransactions(ctx, storage.ListOptions{
		Limit:  limit,
		Offset: offset,
		Search: query,
	})
	if err != nil {
		return nil, l.classify(ctx, err)
	}

	return &SearchResult{Accounts: accounts, Transactions: transactions}, nil
}

// classify maps a failure onto the error taxonomy. Errors already tagged
// with a kind pass through; a recovered panic becomes UnexpectedError;
// everything else is a store failure and becomes InternalServerError.
// By the time classify runs the scoped transaction has already rolled back.
func (l *Ledger) classify(ctx context.Context, err error) *apperrors.Error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, storage.ErrTxPanic) {
		l.logger.ErrorContext(ctx, "panic during ledger operation", slog.String("error", err.Error()))
		return apperrors.Unexpected(apperrors.WithError(err))
	}
	l.logger.ErrorContext(ctx, "store failure", slog.String("error", err.Error()))
	return apperrors.Internal(apperrors.WithError(err))
}
