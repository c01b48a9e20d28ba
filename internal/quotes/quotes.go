// Package quotes serves the latest stock price per ticker, optionally
// through a Redis read-through cache.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/ledger"
)

const DefaultTTL = 5 * time.Minute

// Source returns the latest quote for a ticker.
type Source interface {
	LatestQuote(ctx context.Context, ticker string) (*ledger.StockPrice, error)
}

// Store is a Source that also accepts new quotes.
type Store interface {
	Source
	AppendQuote(ctx context.Context, q *ledger.StockPrice) error
}

// Cache keeps the latest quote per ticker in Redis. Misses and Redis
// failures fall through to the underlying store.
type Cache struct {
	store Store
	rdb   redis.Cmdable
	ttl   time.Duration
}

// New wraps store with a cache when rdb is non-nil.
func New(store Store, rdb redis.Cmdable, ttl time.Duration) Store {
	if rdb == nil {
		return store
	}
	return NewCache(store, rdb, ttl)
}

func NewCache(store Store, rdb redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, rdb: rdb, ttl: ttl}
}

func Key(ticker string) string {
	return "quote:latest:" + ledger.NormalizeTicker(ticker)
}

func (c *Cache) LatestQuote(ctx context.Context, ticker string) (*ledger.StockPrice, error) {
	log := zerolog.Ctx(ctx)
	key := Key(ticker)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q ledger.StockPrice
		if err := json.Unmarshal(data, &q); err == nil {
			return &q, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached quote")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("key", key).Msg("quote cache read failed")
		return c.store.LatestQuote(ctx, ticker)
	}

	q, err := c.store.LatestQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode quote: %w", err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("quote cache write failed")
	}
	return q, nil
}

// AppendQuote stores q and drops the cached latest price for its ticker.
func (c *Cache) AppendQuote(ctx context.Context, q *ledger.StockPrice) error {
	if err := c.store.AppendQuote(ctx, q); err != nil {
		return err
	}
	key := Key(q.Ticker)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("quote cache invalidation failed")
	}
	return nil
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
