package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PositionKey identifies a position. Lots of one ticker bought in different
// currencies are separate positions.
type PositionKey struct {
	Ticker   string
	Currency string
}

// Position is the cost basis of every lot held in one ticker and currency.
type Position struct {
	Ticker      string          `json:"ticker"`
	Currency    string          `json:"currency"`
	TotalShares decimal.Decimal `json:"total_shares"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Lots        int             `json:"lots"`
}

// AveragePrice is cost per share, zero for an empty position.
func (p Position) AveragePrice() decimal.Decimal {
	if p.TotalShares.IsZero() {
		return decimal.Zero
	}
	return p.TotalCost.Div(p.TotalShares)
}

func (p Position) Key() PositionKey {
	return PositionKey{Ticker: p.Ticker, Currency: p.Currency}
}

// Aggregate folds investment lots into one position per ticker and currency.
func Aggregate(investments []Investment) map[PositionKey]Position {
	positions := make(map[PositionKey]Position)
	for i := range investments {
		inv := &investments[i]
		key := PositionKey{Ticker: inv.Ticker, Currency: inv.Currency}
		p, ok := positions[key]
		if !ok {
			p = Position{Ticker: inv.Ticker, Currency: inv.Currency}
		}
		p.TotalShares = p.TotalShares.Add(inv.Shares())
		p.TotalCost = p.TotalCost.Add(inv.Cost())
		p.Lots++
		positions[key] = p
	}
	return positions
}

// SortedPositions returns positions ordered by ticker, then currency.
func SortedPositions(positions map[PositionKey]Position) []Position {
	out := make([]Position, 0, len(positions))
	for _, p := range positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

// Valuation is a position marked against the latest quote.
type Valuation struct {
	Position
	AveragePrice decimal.Decimal `json:"average_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	Gain         decimal.Decimal `json:"gain"`
	GainPercent  decimal.Decimal `json:"gain_percent"`
	HasQuote     bool            `json:"has_quote"`
}

// Value marks p to market. A nil quote, or one in another currency, prices
// the position at zero so the whole cost shows as a loss. HasQuote tells
// callers which case they got.
func Value(p Position, quote *StockPrice) Valuation {
	v := Valuation{
		Position:     p,
		AveragePrice: p.AveragePrice(),
		CurrentPrice: decimal.Zero,
	}
	if quote != nil && quote.Currency == p.Currency {
		v.CurrentPrice = ToMajor(quote.Price)
		v.HasQuote = true
	}
	v.MarketValue = v.CurrentPrice.Mul(p.TotalShares)
	v.Gain = v.MarketValue.Sub(p.TotalCost)
	if !p.TotalCost.IsZero() {
		v.GainPercent = v.Gain.Div(p.TotalCost).Mul(hundred)
	}
	return v
}

// CurrencyTotal sums the valuations held in one currency.
type CurrencyTotal struct {
	Currency    string          `json:"currency"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	MarketValue decimal.Decimal `json:"market_value"`
	Gain        decimal.Decimal `json:"gain"`
}

// TotalsByCurrency sums cost and market value per currency, ordered by
// currency code. Amounts in different currencies are never added together.
func TotalsByCurrency(valuations []Valuation) []CurrencyTotal {
	byCur := make(map[string]*CurrencyTotal)
	var order []string
	for _, v := range valuations {
		t, ok := byCur[v.Currency]
		if !ok {
			t = &CurrencyTotal{Currency: v.Currency}
			byCur[v.Currency] = t
			order = append(order, v.Currency)
		}
		t.TotalCost = t.TotalCost.Add(v.TotalCost)
		t.MarketValue = t.MarketValue.Add(v.MarketValue)
	}
	sort.Strings(order)
	out := make([]CurrencyTotal, 0, len(order))
	for _, c := range order {
		t := byCur[c]
		t.Gain = t.MarketValue.Sub(t.TotalCost)
		out = append(out, *t)
	}
	return out
}
