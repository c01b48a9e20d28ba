package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
)

const investmentColumns = `id, owner_id, date, ticker, currency, price, share, created_at`

func (s *Store) CreateInvestment(ctx context.Context, inv *ledger.Investment) error {
	inv.Ticker = ledger.NormalizeTicker(inv.Ticker)
	cur, err := ledger.NormalizeCurrency(inv.Currency)
	if err != nil {
		return err
	}
	inv.Currency = cur
	if err := inv.Validate(); err != nil {
		return err
	}
	if inv.ID == "" {
		inv.ID = newID()
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}
	inv.Date = ledger.DateOnly(inv.Date)
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err = s.writer.ExecContext(ctx,
		`INSERT INTO investments (`+investmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, formatDate(inv.Date), inv.Ticker, inv.Currency,
		inv.Price, inv.Share, formatTime(inv.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// ListInvestments returns the owner's lots, newest date first.
func (s *Store) ListInvestments(ctx context.Context, ownerID string) ([]ledger.Investment, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE owner_id = ? ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []ledger.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// DeleteInvestment removes one lot and returns it.
func (s *Store) DeleteInvestment(ctx context.Context, ownerID, id string) (*ledger.Investment, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrInvestmentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != ownerID {
		return nil, ledger.ErrForeignInvestment
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete investment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return inv, nil
}

func scanInvestment(row scanner) (*ledger.Investment, error) {
	var inv ledger.Investment
	var date, createdAt string
	err := row.Scan(&inv.ID, &inv.OwnerID, &date, &inv.Ticker, &inv.Currency, &inv.Price, &inv.Share, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan investment: %w", err)
	}
	inv.Date = parseDate(date)
	inv.CreatedAt = parseTime(createdAt)
	return &inv, nil
}
