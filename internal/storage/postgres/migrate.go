package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id             BIGSERIAL PRIMARY KEY,
		account_number VARCHAR(10) NOT NULL UNIQUE,
		account_name   VARCHAR(100) NOT NULL,
		balance        NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		currency       CHAR(3) NOT NULL DEFAULT 'USD',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id              BIGSERIAL PRIMARY KEY,
		date            TIMESTAMPTZ NOT NULL DEFAULT now(),
		amount          NUMERIC(10,2) NOT NULL CHECK (amount > 0),
		from_account_id BIGINT NOT NULL REFERENCES accounts (id),
		to_account_id   BIGINT NOT NULL REFERENCES accounts (id),
		beneficiary     VARCHAR(100) NOT NULL,
		description     VARCHAR(200) NOT NULL DEFAULT '',
		state           VARCHAR(10) NOT NULL DEFAULT 'pending'
			CHECK (state IN ('pending', 'sent', 'received', 'paid')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_from_account ON transactions (from_account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_to_account ON transactions (to_account_id)`,
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
