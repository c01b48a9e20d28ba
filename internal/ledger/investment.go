package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const ProviderGoogleFinance = "google_finance"

// Investment is one purchase lot. Price and Share are fixed-point with
// FixedPointExponent implied decimals.
type Investment struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Date      time.Time `json:"date"`
	Ticker    string    `json:"ticker"`
	Currency  string    `json:"currency"`
	Price     int64     `json:"price"`
	Share     int64     `json:"share"`
	CreatedAt time.Time `json:"created_at"`
}

func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func (inv *Investment) Validate() error {
	if inv.OwnerID == "" {
		return ErrEmptyOwner
	}
	if len(inv.Ticker) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, inv.Ticker)
	}
	if _, err := NormalizeCurrency(inv.Currency); err != nil {
		return err
	}
	if inv.Price <= 0 {
		return fmt.Errorf("%w: price", ErrNonPositiveAmount)
	}
	if inv.Share <= 0 {
		return fmt.Errorf("%w: share", ErrNonPositiveAmount)
	}
	return nil
}

func (inv *Investment) Shares() decimal.Decimal    { return FromFixed(inv.Share) }
func (inv *Investment) UnitPrice() decimal.Decimal { return FromFixed(inv.Price) }
func (inv *Investment) Cost() decimal.Decimal      { return inv.Shares().Mul(inv.UnitPrice()) }

// StockPrice is an immutable quote snapshot. Price is in minor units.
type StockPrice struct {
	ID        int64     `json:"id,omitempty"`
	Ticker    string    `json:"ticker"`
	Currency  string    `json:"currency"`
	Price     int64     `json:"price"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *StockPrice) Validate() error {
	if len(q.Ticker) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, q.Ticker)
	}
	if _, err := NormalizeCurrency(q.Currency); err != nil {
		return err
	}
	if q.Price < 0 {
		return fmt.Errorf("%w: price %d", ErrInvalidAmount, q.Price)
	}
	if q.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrValidation)
	}
	return nil
}
