package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	quotes  map[string]*ledger.StockPrice
	lookups int
}

func (m *memStore) LatestQuote(_ context.Context, ticker string) (*ledger.StockPrice, error) {
	m.lookups++
	q, ok := m.quotes[ledger.NormalizeTicker(ticker)]
	if !ok {
		return nil, ledger.ErrQuoteNotFound
	}
	return q, nil
}

func (m *memStore) AppendQuote(_ context.Context, q *ledger.StockPrice) error {
	q.Ticker = ledger.NormalizeTicker(q.Ticker)
	m.quotes[q.Ticker] = q
	return nil
}

func acme() *ledger.StockPrice {
	return &ledger.StockPrice{
		ID:        7,
		Ticker:    "ACME",
		Currency:  "USD",
		Price:     1500,
		Provider:  ledger.ProviderGoogleFinance,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCacheMissFillsCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &memStore{quotes: map[string]*ledger.StockPrice{"ACME": acme()}}
	cache := NewCache(store, rdb, time.Minute)

	data, err := json.Marshal(acme())
	require.NoError(t, err)
	mock.ExpectGet("quote:latest:ACME").RedisNil()
	mock.ExpectSet("quote:latest:ACME", data, time.Minute).SetVal("OK")

	q, err := cache.LatestQuote(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), q.Price)
	assert.Equal(t, 1, store.lookups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitSkipsStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &memStore{quotes: map[string]*ledger.StockPrice{}}
	cache := NewCache(store, rdb, time.Minute)

	data, err := json.Marshal(acme())
	require.NoError(t, err)
	mock.ExpectGet("quote:latest:ACME").SetVal(string(data))

	q, err := cache.LatestQuote(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), q.Price)
	assert.Equal(t, 0, store.lookups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheErrorFallsBackToStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &memStore{quotes: map[string]*ledger.StockPrice{"ACME": acme()}}
	cache := NewCache(store, rdb, time.Minute)

	mock.ExpectGet("quote:latest:ACME").SetErr(errors.New("connection refused"))

	q, err := cache.LatestQuote(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), q.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDoesNotStoreMisses(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCache(&memStore{quotes: map[string]*ledger.StockPrice{}}, rdb, time.Minute)

	mock.ExpectGet("quote:latest:NONE").RedisNil()

	_, err := cache.LatestQuote(context.Background(), "NONE")
	assert.ErrorIs(t, err, ledger.ErrQuoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendInvalidates(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := &memStore{quotes: map[string]*ledger.StockPrice{}}
	cache := NewCache(store, rdb, time.Minute)

	mock.ExpectDel("quote:latest:ACME").SetVal(1)

	require.NoError(t, cache.AppendQuote(context.Background(), &ledger.StockPrice{Ticker: "acme", Price: 1600}))
	assert.Equal(t, int64(1600), store.quotes["ACME"].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithoutRedis(t *testing.T) {
	store := &memStore{quotes: map[string]*ledger.StockPrice{}}
	assert.Same(t, store, New(store, nil, 0))
}
