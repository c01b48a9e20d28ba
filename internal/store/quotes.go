package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
)

// AppendQuote records a new price snapshot. Earlier rows are never touched.
func (s *Store) AppendQuote(ctx context.Context, q *ledger.StockPrice) error {
	q.Ticker = ledger.NormalizeTicker(q.Ticker)
	cur, err := ledger.NormalizeCurrency(q.Currency)
	if err != nil {
		return err
	}
	q.Currency = cur
	if q.Provider == "" {
		q.Provider = ledger.ProviderGoogleFinance
	}
	if err := q.Validate(); err != nil {
		return err
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	res, err := s.writer.ExecContext(ctx,
		`INSERT INTO stock_prices (ticker, currency, price, provider, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.Ticker, q.Currency, q.Price, q.Provider, formatTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert stock price: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		q.ID = id
	}
	return nil
}

// LatestQuote returns the most recently appended price for ticker.
func (s *Store) LatestQuote(ctx context.Context, ticker string) (*ledger.StockPrice, error) {
	ticker = ledger.NormalizeTicker(ticker)

	var q ledger.StockPrice
	var createdAt string
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, ticker, currency, price, provider, created_at
		FROM stock_prices WHERE ticker = ? ORDER BY id DESC LIMIT 1`, ticker,
	).Scan(&q.ID, &q.Ticker, &q.Currency, &q.Price, &q.Provider, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrQuoteNotFound, ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("latest quote: %w", err)
	}
	q.CreatedAt = parseTime(createdAt)
	return &q, nil
}
