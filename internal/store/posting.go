package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simonvc/homeledger/internal/ledger"
)

// postSQL applies the posting rule in one statement so the balance is never
// read back into Go and concurrent postings cannot lose an update.
const postSQL = `UPDATE accounts
	SET balance = balance + CASE WHEN normal_side = ? THEN ? ELSE -? END
	WHERE id = ?`

// postEntry moves the account balance for e. A negative amount reverses a
// previous posting.
func postEntry(ctx context.Context, tx *sql.Tx, accountID string, side ledger.Side, amount int64) error {
	res, err := tx.ExecContext(ctx, postSQL, string(side), amount, amount, accountID)
	if isCheckViolation(err) {
		return fmt.Errorf("%w: balance of account %s would overflow", ledger.ErrAmountTooLarge, accountID)
	}
	if err != nil {
		return fmt.Errorf("post to account %s: %w", accountID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post to account %s: %w", accountID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, accountID)
	}
	return nil
}

// checkAccountOwners makes sure every account exists and belongs to ownerID.
func checkAccountOwners(ctx context.Context, tx *sql.Tx, ownerID string, accountIDs []string) error {
	for _, id := range accountIDs {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT owner_id FROM accounts WHERE id = ?`, id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("check account %s: %w", id, err)
		}
		if owner != ownerID {
			return fmt.Errorf("%w: %s", ledger.ErrForeignAccount, id)
		}
	}
	return nil
}

// insertEntries writes each entry and posts it, in order.
func insertEntries(ctx context.Context, tx *sql.Tx, txnID string, entries []ledger.Entry) error {
	for i := range entries {
		e := &entries[i]
		e.TransactionID = txnID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO entries (transaction_id, account_id, side, amount) VALUES (?, ?, ?, ?)`,
			txnID, e.AccountID, string(e.Side), e.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
		if id, err := res.LastInsertId(); err == nil {
			e.ID = id
		}
		if err := postEntry(ctx, tx, e.AccountID, e.Side, e.Amount); err != nil {
			return err
		}
	}
	return nil
}

// removeEntries reverses every entry's posting and deletes the rows.
func removeEntries(ctx context.Context, tx *sql.Tx, txnID string, entries []ledger.Entry) error {
	for _, e := range entries {
		if err := postEntry(ctx, tx, e.AccountID, e.Side, -e.Amount); err != nil {
			return fmt.Errorf("reverse entry %d: %w", e.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE transaction_id = ?`, txnID); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}
