// Package portfolio values an owner's investment lots against the latest
// recorded stock prices.
package portfolio

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/quotes"
)

type Lots interface {
	ListInvestments(ctx context.Context, ownerID string) ([]ledger.Investment, error)
}

type Service struct {
	lots   Lots
	quotes quotes.Source
}

func NewService(lots Lots, src quotes.Source) *Service {
	return &Service{lots: lots, quotes: src}
}

// Summary holds one valuation per ticker and currency, plus totals per
// currency.
type Summary struct {
	Positions []ledger.Valuation     `json:"positions"`
	Totals    []ledger.CurrencyTotal `json:"totals"`
}

// Summary aggregates the owner's lots and values each position. A ticker with
// no recorded price, or whose latest price is in another currency, is valued
// at zero, not an error.
func (s *Service) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	lots, err := s.lots.ListInvestments(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := &Summary{Positions: []ledger.Valuation{}, Totals: []ledger.CurrencyTotal{}}
	for _, p := range ledger.SortedPositions(ledger.Aggregate(lots)) {
		q, err := s.quotes.LatestQuote(ctx, p.Ticker)
		if errors.Is(err, ledger.ErrQuoteNotFound) {
			zerolog.Ctx(ctx).Debug().Str("ticker", p.Ticker).Msg("no quote recorded")
			q, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		if q != nil && q.Currency != p.Currency {
			zerolog.Ctx(ctx).Warn().
				Str("ticker", p.Ticker).
				Str("position_currency", p.Currency).
				Str("quote_currency", q.Currency).
				Msg("quote currency does not match position")
		}
		out.Positions = append(out.Positions, ledger.Value(p, q))
	}
	out.Totals = ledger.TotalsByCurrency(out.Positions)
	return out, nil
}
