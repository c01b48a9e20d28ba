package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/ledger"
)

// CreateTransaction validates txn, inserts it with its entries and posts
// every entry to its account, all in one database transaction.
func (s *Store) CreateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	if txn.ID == "" {
		txn.ID = newID()
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}
	txn.Date = ledger.DateOnly(txn.Date)
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	if err := txn.Validate(); err != nil {
		return err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkAccountOwners(ctx, tx, txn.OwnerID, txn.AccountIDs()); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, date, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		txn.ID, txn.OwnerID, formatDate(txn.Date), txn.Description, formatTime(txn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if err := insertEntries(ctx, tx, txn.ID, txn.Entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("transaction_id", txn.ID).
		Int("entries", len(txn.Entries)).
		Msg("transaction posted")
	return nil
}

// DeleteTransaction reverses and removes a transaction and its entries.
// The deleted transaction is returned.
func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) (*ledger.Transaction, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := getTransaction(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := removeEntries(ctx, tx, id, txn.Entries); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("transaction_id", id).Msg("transaction deleted")
	return txn, nil
}

// ReplaceTransaction swaps the date, description and entries of an existing
// transaction. The old entries are reversed and the new ones posted in the
// same database transaction, so no intermediate balance is ever visible.
func (s *Store) ReplaceTransaction(ctx context.Context, ownerID, id string, next *ledger.Transaction) error {
	next.ID = id
	next.OwnerID = ownerID
	if next.Date.IsZero() {
		next.Date = time.Now()
	}
	next.Date = ledger.DateOnly(next.Date)

	if err := next.Validate(); err != nil {
		return err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prev, err := getTransaction(ctx, tx, ownerID, id)
	if err != nil {
		return err
	}
	if err := checkAccountOwners(ctx, tx, ownerID, next.AccountIDs()); err != nil {
		return err
	}

	if err := removeEntries(ctx, tx, id, prev.Entries); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE transactions SET date = ?, description = ? WHERE id = ?`,
		formatDate(next.Date), next.Description, id,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if err := insertEntries(ctx, tx, id, next.Entries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	next.CreatedAt = prev.CreatedAt
	zerolog.Ctx(ctx).Debug().Str("transaction_id", id).Msg("transaction replaced")
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, ownerID, id string) (*ledger.Transaction, error) {
	return getTransaction(ctx, s.reader, ownerID, id)
}

func getTransaction(ctx context.Context, q queryer, ownerID, id string) (*ledger.Transaction, error) {
	var txn ledger.Transaction
	var date, createdAt string

	err := q.QueryRowContext(ctx,
		`SELECT id, owner_id, date, description, created_at FROM transactions WHERE id = ?`, id,
	).Scan(&txn.ID, &txn.OwnerID, &date, &txn.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrTransactionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn.OwnerID != ownerID {
		return nil, ledger.ErrForeignTransaction
	}
	txn.Date = parseDate(date)
	txn.CreatedAt = parseTime(createdAt)

	entries, err := entriesForTransaction(ctx, q, id)
	if err != nil {
		return nil, err
	}
	txn.Entries = entries

	return &txn, nil
}

// ListTransactions returns the owner's transactions, newest date first.
func (s *Store) ListTransactions(ctx context.Context, filter TxnFilter) ([]ledger.Transaction, error) {
	if filter.OwnerID == "" {
		return nil, ledger.ErrEmptyOwner
	}
	query := `SELECT t.id, t.owner_id, t.date, t.description, t.created_at FROM transactions t WHERE t.owner_id = ?`
	args := []any{filter.OwnerID}

	if filter.AccountID != "" {
		query += ` AND EXISTS (SELECT 1 FROM entries e WHERE e.transaction_id = t.id AND e.account_id = ?)`
		args = append(args, filter.AccountID)
	}
	if !filter.From.IsZero() {
		query += ` AND t.date >= ?`
		args = append(args, formatDate(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND t.date < ?`
		args = append(args, formatDate(filter.To))
	}

	query += ` ORDER BY t.date DESC, t.created_at DESC`
	query = appendPage(query, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.Transaction
	for rows.Next() {
		var txn ledger.Transaction
		var date, createdAt string
		if err := rows.Scan(&txn.ID, &txn.OwnerID, &date, &txn.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Date = parseDate(date)
		txn.CreatedAt = parseTime(createdAt)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range txns {
		entries, err := entriesForTransaction(ctx, s.reader, txns[i].ID)
		if err != nil {
			return nil, err
		}
		txns[i].Entries = entries
	}
	return txns, nil
}

// TransactionDescriptions lists the owner's distinct non-empty descriptions,
// most recently used first.
func (s *Store) TransactionDescriptions(ctx context.Context, ownerID string, limit int) ([]string, error) {
	query := appendPage(`SELECT description FROM transactions
		WHERE owner_id = ? AND description != ''
		GROUP BY description
		ORDER BY MAX(date) DESC, MAX(created_at) DESC`, limit, 0)

	rows, err := s.reader.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list descriptions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan description: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func entriesForTransaction(ctx context.Context, q queryer, txnID string) ([]ledger.Entry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, transaction_id, account_id, side, amount FROM entries WHERE transaction_id = ? ORDER BY id`,
		txnID,
	)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Side, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
