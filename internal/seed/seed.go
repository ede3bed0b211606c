// Package seed populates an empty store with development data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petrunov/gs-peachtree-bank/internal/models"
	"github.com/petrunov/gs-peachtree-bank/internal/storage"
)

var accountNames = []string{
	"John Doe Checking",
	"Jane Smith Savings",
	"Michael Johnson Business",
	"Sarah Williams Personal",
	"Robert Brown Investment",
}

var descriptions = []string{
	"Card Payments",
	"Transaction",
	"Online transfer",
}

// Run creates five USD accounts with opening balances and ten transfers
// between them. It does nothing when accounts already exist.
func Run(ctx context.Context, store storage.Store, logger *slog.Logger) error {
	existing, err := store.ListAccounts(ctx, storage.ListOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed: check existing accounts: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "store already contains data, skipping seed")
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var accounts []*models.Account
	err = store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, name := range accountNames {
			account := &models.Account{
				AccountNumber: accountNumber(rng),
				AccountName:   name,
				Balance:       decimal.NewFromInt(int64(500 + rng.Intn(4500))),
				Currency:      "USD",
			}
			if err := tx.CreateAccount(ctx, account); err != nil {
				return err
			}
			accounts = append(accounts, account)
		}

		states := models.States()
		for i := 0; i < 10; i++ {
			from := accounts[rng.Intn(len(accounts))]
			to := from
			for to == from {
				to = accounts[rng.Intn(len(accounts))]
			}

			transaction := &models.Transaction{
				Date:          time.Now().UTC().AddDate(0, 0, -rng.Intn(30)),
				Amount:        decimal.NewFromInt(int64(10 + rng.Intn(490))).Round(2),
				FromAccountID: from.ID,
				ToAccountID:   to.ID,
				Beneficiary:   to.AccountName,
				Description:   descriptions[rng.Intn(len(descriptions))],
				State:         states[rng.Intn(len(states))],
			}
			if err := tx.SaveTransaction(ctx, transaction); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.InfoContext(ctx, "store seeded",
		slog.Int("accounts", len(accountNames)),
		slog.Int("transactions", 10),
	)
	return nil
}

func accountNumber(rng *rand.Rand) string {
	digits := make([]byte, 10)
	for i := range digits {
		digits[i] = byte('0' + rng.Intn(10))
	}
	return string(digits)
}
