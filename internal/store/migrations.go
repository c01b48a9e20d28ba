package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			owner_id      TEXT NOT NULL,
			name          TEXT NOT NULL,
			type          TEXT NOT NULL CHECK (type IN ('asset','liability','equity','income','expense')),
			normal_side   TEXT NOT NULL CHECK (normal_side IN ('dr','cr')),
			balance       INTEGER NOT NULL DEFAULT 0 CHECK (typeof(balance) = 'integer'),
			is_investment INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			UNIQUE (owner_id, name),
			CHECK (normal_side = CASE WHEN type IN ('asset','expense') THEN 'dr' ELSE 'cr' END)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_owner_type ON accounts(owner_id, type)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			date        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_owner_date ON transactions(owner_id, date)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL REFERENCES transactions(id),
			account_id     TEXT NOT NULL REFERENCES accounts(id),
			side           TEXT NOT NULL CHECK (side IN ('dr','cr')),
			amount         INTEGER NOT NULL CHECK (amount > 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_txn ON entries(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id)`,

		`CREATE TABLE IF NOT EXISTS investments (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL,
			date       TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			currency   TEXT NOT NULL,
			price      INTEGER NOT NULL CHECK (price > 0),
			share      INTEGER NOT NULL CHECK (share > 0),
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_owner ON investments(owner_id, date)`,

		`CREATE TABLE IF NOT EXISTS stock_prices (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker     TEXT NOT NULL,
			currency   TEXT NOT NULL,
			price      INTEGER NOT NULL CHECK (price >= 0),
			provider   TEXT NOT NULL DEFAULT 'google_finance',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_prices_ticker ON stock_prices(ticker, id)`,

		// Entries are written once and removed only with their transaction.
		`CREATE TRIGGER IF NOT EXISTS trg_immutable_entries_update
		BEFORE UPDATE ON entries
		BEGIN
			SELECT RAISE(ABORT, 'entries are immutable');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_account_type_fixed
		BEFORE UPDATE OF type, normal_side, owner_id ON accounts
		WHEN NEW.type != OLD.type OR NEW.normal_side != OLD.normal_side OR NEW.owner_id != OLD.owner_id
		BEGIN
			SELECT RAISE(ABORT, 'account type, normal side and owner cannot change');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_stock_prices
		BEFORE UPDATE ON stock_prices
		BEGIN
			SELECT RAISE(ABORT, 'stock prices are immutable');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:min(len(stmt), 60)], err)
		}
	}
	return nil
}
