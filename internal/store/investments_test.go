package store

import (
	"context"
	"testing"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentsLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &ledger.Investment{OwnerID: "alice", Date: day(2024, 1, 5), Ticker: "acme", Currency: "usd", Price: 100000, Share: 50000}
	second := &ledger.Investment{OwnerID: "alice", Date: day(2024, 2, 5), Ticker: "ACME", Price: 120000, Share: 30000}
	require.NoError(t, s.CreateInvestment(ctx, first))
	require.NoError(t, s.CreateInvestment(ctx, second))
	assert.Equal(t, "ACME", first.Ticker)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "USD", second.Currency)

	lots, err := s.ListInvestments(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, second.ID, lots[0].ID)

	pos := ledger.Aggregate(lots)[ledger.PositionKey{Ticker: "ACME", Currency: "USD"}]
	assert.Equal(t, "10.75", pos.AveragePrice().StringFixed(2))

	_, err = s.DeleteInvestment(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, ledger.ErrForeignInvestment)

	deleted, err := s.DeleteInvestment(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)

	_, err = s.DeleteInvestment(ctx, "alice", first.ID)
	assert.ErrorIs(t, err, ledger.ErrInvestmentNotFound)
}

func TestCreateInvestmentValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateInvestment(ctx, &ledger.Investment{OwnerID: "alice", Ticker: "A", Price: 1, Share: 1})
	assert.ErrorIs(t, err, ledger.ErrInvalidTicker)
	err = s.CreateInvestment(ctx, &ledger.Investment{OwnerID: "alice", Ticker: "ACME", Price: 1, Share: 0})
	assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount)
	err = s.CreateInvestment(ctx, &ledger.Investment{OwnerID: "alice", Ticker: "ACME", Currency: "ZZZ", Price: 1, Share: 1})
	assert.ErrorIs(t, err, ledger.ErrInvalidCurrency)
}

func TestQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LatestQuote(ctx, "ACME")
	assert.ErrorIs(t, err, ledger.ErrQuoteNotFound)

	require.NoError(t, s.AppendQuote(ctx, &ledger.StockPrice{Ticker: "acme", Price: 1400}))
	latest := &ledger.StockPrice{Ticker: "ACME", Currency: "USD", Price: 1500}
	require.NoError(t, s.AppendQuote(ctx, latest))
	assert.NotZero(t, latest.ID)
	assert.Equal(t, ledger.ProviderGoogleFinance, latest.Provider)

	got, err := s.LatestQuote(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.Price)
	assert.Equal(t, "USD", got.Currency)

	err = s.AppendQuote(ctx, &ledger.StockPrice{Ticker: "ACME", Price: -1})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}
