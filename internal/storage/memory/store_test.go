package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrunov/gs-peachtree-bank/internal/models"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
	"github.com/petrunov/gs-peachtree-bank/internal/storage/memory"
)

func createAccount(t *testing.T, store *memory.Store, number, name, balance string) *models.Account {
	t.Helper()
	account := &models.Account{
		AccountNumber: number,
		AccountName:   name,
		Balance:       decimal.RequireFromString(balance),
		Currency:      "USD",
	}
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateAccount(context.Background(), account)
	})
	require.NoError(t, err)
	return account
}

func TestCreateAndGetAccount(t *testing.T) {
	store := memory.NewStore()
	created := createAccount(t, store, "1234567890", "Checking", "100.50")

	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := store.GetAccount(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", fetched.AccountName)
	assert.True(t, fetched.Balance.Equal(decimal.RequireFromString("100.50")))
}

func TestGetAccount_NotFound(t *testing.T) {
	store := memory.NewStore()

	_, err := store.GetAccount(context.Background(), 1)

	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		locked, err := tx.GetAccountForUpdate(context.Background(), account.ID)
		require.NoError(t, err)
		locked.Balance = decimal.Zero
		require.NoError(t, tx.SaveAccount(context.Background(), locked))

		require.NoError(t, tx.SaveTransaction(context.Background(), &models.Transaction{
			Amount:        decimal.RequireFromString("100.00"),
			FromAccountID: account.ID,
			ToAccountID:   account.ID,
			Beneficiary:   "x",
			State:         models.StatePending,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	fetched, err := store.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", fetched.Balance.StringFixed(2), "balance write must be rolled back")

	transactions, err := store.ListTransactions(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, transactions, "transaction insert must be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		locked, _ := tx.GetAccountForUpdate(context.Background(), account.ID)
		locked.Balance = decimal.Zero
		_ = tx.SaveAccount(context.Background(), locked)
		panic("unexpected fault")
	})
	require.ErrorIs(t, err, storage.ErrTxPanic)

	fetched, ferr := store.GetAccount(context.Background(), account.ID)
	require.NoError(t, ferr)
	assert.Equal(t, "100.00", fetched.Balance.StringFixed(2))
}

func TestWithinTx_RollbackOnCancelledContext(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	ctx, cancel := context.WithCancel(context.Background())
	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		locked, _ := tx.GetAccountForUpdate(ctx, account.ID)
		locked.Balance = decimal.Zero
		_ = tx.SaveAccount(ctx, locked)
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	fetched, ferr := store.GetAccount(context.Background(), account.ID)
	require.NoError(t, ferr)
	assert.Equal(t, "100.00", fetched.Balance.StringFixed(2))
}

func TestWithinTx_ReadsOwnWrites(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		locked, err := tx.GetAccountForUpdate(context.Background(), account.ID)
		require.NoError(t, err)
		locked.Balance = decimal.RequireFromString("75")
		require.NoError(t, tx.SaveAccount(context.Background(), locked))

		again, err := tx.GetAccountForUpdate(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "75.00", again.Balance.StringFixed(2))
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_NestedScopeJoinsOuter(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	err := store.WithinTx(context.Background(), func(ctx context.Context, outer storage.Tx) error {
		locked, err := outer.GetAccountForUpdate(ctx, account.ID)
		require.NoError(t, err)
		locked.Balance = decimal.RequireFromString("60")
		require.NoError(t, outer.SaveAccount(ctx, locked))

		// The inner scope must join the open transaction, not block on the
		// store mutex or commit on its own.
		return store.WithinTx(ctx, func(ctx context.Context, inner storage.Tx) error {
			require.Same(t, outer, inner)
			return inner.SaveTransaction(ctx, &models.Transaction{
				Amount:        decimal.RequireFromString("40.00"),
				FromAccountID: account.ID,
				ToAccountID:   account.ID,
				Beneficiary:   "x",
				State:         models.StatePending,
			})
		})
	})
	require.NoError(t, err)

	fetched, err := store.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", fetched.Balance.StringFixed(2))

	transactions, err := store.ListTransactions(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestWithinTx_NestedWritesDiscardedWhenOuterFails(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		ierr := store.WithinTx(ctx, func(ctx context.Context, inner storage.Tx) error {
			return inner.SaveTransaction(ctx, &models.Transaction{
				Amount:        decimal.RequireFromString("40.00"),
				FromAccountID: account.ID,
				ToAccountID:   account.ID,
				Beneficiary:   "x",
				State:         models.StatePending,
			})
		})
		require.NoError(t, ierr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	transactions, lerr := store.ListTransactions(context.Background(), storage.ListOptions{})
	require.NoError(t, lerr)
	assert.Empty(t, transactions, "inner scope must not commit when the outer scope fails")
}

func TestSaveAccount_UnknownAccount(t *testing.T) {
	store := memory.NewStore()

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.SaveAccount(context.Background(), &models.Account{ID: 99})
	})

	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestUpdateTransactionState_NotVisibleUntilCommit(t *testing.T) {
	store := memory.NewStore()
	account := createAccount(t, store, "1234567890", "Checking", "100")

	transaction := &models.Transaction{
		Amount:        decimal.RequireFromString("10.00"),
		FromAccountID: account.ID,
		ToAccountID:   account.ID,
		Beneficiary:   "x",
		State:         models.StatePending,
	}
	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		return tx.SaveTransaction(context.Background(), transaction)
	}))

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		_, uerr := tx.UpdateTransactionState(context.Background(), transaction.ID, models.StatePaid)
		require.NoError(t, uerr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	fetched, ferr := store.GetTransaction(context.Background(), transaction.ID)
	require.NoError(t, ferr)
	assert.Equal(t, models.StatePending, fetched.State)
}

func TestListAccounts_SortedByAccountNumber(t *testing.T) {
	store := memory.NewStore()
	createAccount(t, store, "3000000000", "C", "0")
	createAccount(t, store, "1000000000", "A", "0")
	createAccount(t, store, "2000000000", "B", "0")

	accounts, err := store.ListAccounts(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "1000000000", accounts[0].AccountNumber)
	assert.Equal(t, "3000000000", accounts[2].AccountNumber)

	accounts, err = store.ListAccounts(context.Background(), storage.ListOptions{SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "3000000000", accounts[0].AccountNumber)
}

func TestSearchAccounts(t *testing.T) {
	store := memory.NewStore()
	createAccount(t, store, "1111111111", "John Doe Checking", "0")
	createAccount(t, store, "2222222222", "Jane Smith Savings", "0")

	matches, err := store.SearchAccounts(context.Background(), "JOHN", 100, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "John Doe Checking", matches[0].AccountName)

	matches, err = store.SearchAccounts(context.Background(), "2222", 100, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Jane Smith Savings", matches[0].AccountName)
}

func TestNormalize_Clamps(t *testing.T) {
	opts := storage.ListOptions{Limit: 500, Offset: -3}.Normalize("date", "desc")
	assert.Equal(t, storage.MaxPageSize, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Equal(t, "date", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)

	opts = storage.ListOptions{Limit: 10, SortBy: "amount", SortOrder: "asc"}.Normalize("date", "desc")
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "amount", opts.SortBy)
	assert.Equal(t, "asc", opts.SortOrder)
}
