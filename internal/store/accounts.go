package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/ledger"
)

const accountColumns = `id, owner_id, name, type, normal_side, balance, is_investment, created_at`

// CreateAccount inserts acct with a zero balance. ID and CreatedAt are
// filled in when empty.
func (s *Store) CreateAccount(ctx context.Context, acct *ledger.Account) error {
	acct.Name = strings.TrimSpace(acct.Name)
	if acct.NormalSide == "" {
		acct.NormalSide = acct.Type.NormalSide()
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if acct.ID == "" {
		acct.ID = newID()
	}
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}
	acct.Balance = 0

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		acct.ID, acct.OwnerID, acct.Name, string(acct.Type), string(acct.NormalSide),
		boolToInt(acct.IsInvestment), formatTime(acct.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ledger.ErrDuplicateAccount, acct.Name)
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account_id", acct.ID).
		Str("type", string(acct.Type)).
		Msg("account created")
	return nil
}

// GetAccount returns the account if it exists and belongs to ownerID.
func (s *Store) GetAccount(ctx context.Context, ownerID, id string) (*ledger.Account, error) {
	return getAccount(ctx, s.reader, ownerID, id)
}

func getAccount(ctx context.Context, q queryer, ownerID, id string) (*ledger.Account, error) {
	row := q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if acct.OwnerID != ownerID {
		return nil, ledger.ErrForeignAccount
	}
	return acct, nil
}

// ListAccounts returns the owner's accounts ordered by type then name.
func (s *Store) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	return listAccounts(ctx, s.reader, filter)
}

func listAccounts(ctx context.Context, q queryer, filter AccountFilter) ([]ledger.Account, error) {
	if filter.OwnerID == "" {
		return nil, ledger.ErrEmptyOwner
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = ?`
	args := []any{filter.OwnerID}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.IsInvestment != nil {
		query += ` AND is_investment = ?`
		args = append(args, boolToInt(*filter.IsInvestment))
	}

	query += ` ORDER BY CASE type
		WHEN 'asset' THEN 1 WHEN 'liability' THEN 2 WHEN 'equity' THEN 3
		WHEN 'income' THEN 4 ELSE 5 END, name`
	query = appendPage(query, filter.Limit, filter.Offset)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// RenameAccount changes an account's name, keeping names unique per owner.
func (s *Store) RenameAccount(ctx context.Context, ownerID, id, name string) (*ledger.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ledger.ErrEmptyAccountName
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	acct, err := getAccount(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE accounts SET name = ? WHERE id = ?`, name, id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %q", ledger.ErrDuplicateAccount, name)
	}
	if err != nil {
		return nil, fmt.Errorf("rename account: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	acct.Name = name
	return acct, nil
}

// ListAccountEntries returns the entries posted to an account, newest first.
func (s *Store) ListAccountEntries(ctx context.Context, ownerID, id string, limit int) ([]ledger.AccountEntry, error) {
	if _, err := s.GetAccount(ctx, ownerID, id); err != nil {
		return nil, err
	}

	query := appendPage(`SELECT e.id, e.transaction_id, e.account_id, e.side, e.amount, t.date, t.description
		FROM entries e
		JOIN transactions t ON t.id = e.transaction_id
		WHERE e.account_id = ?
		ORDER BY t.date DESC, e.id DESC`, limit, 0)

	rows, err := s.reader.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.AccountEntry
	for rows.Next() {
		var ae ledger.AccountEntry
		var date string
		if err := rows.Scan(&ae.ID, &ae.TransactionID, &ae.AccountID, &ae.Side, &ae.Amount, &date, &ae.Description); err != nil {
			return nil, fmt.Errorf("scan account entry: %w", err)
		}
		ae.Date = parseDate(date)
		entries = append(entries, ae)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*ledger.Account, error) {
	var acct ledger.Account
	var isInvestment int
	var createdAt string
	err := row.Scan(&acct.ID, &acct.OwnerID, &acct.Name, &acct.Type, &acct.NormalSide,
		&acct.Balance, &isInvestment, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acct.IsInvestment = isInvestment == 1
	acct.CreatedAt = parseTime(createdAt)
	return &acct, nil
}
