package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/session"
)

// Prices and share counts travel as decimal strings so clients never deal
// with the fixed-point scale.
type investmentRequest struct {
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Ticker   string `json:"ticker" validate:"required,min=2,max=20"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Price    string `json:"price" validate:"required,number"`
	Share    string `json:"share" validate:"required,number"`
}

type quoteRequest struct {
	Ticker   string `json:"ticker" validate:"required,min=2,max=20"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Price    string `json:"price" validate:"required,number"`
	Provider string `json:"provider" validate:"omitempty,max=50"`
}

func (s *Server) createInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	price, err := ledger.ParseFixed(req.Price)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	share, err := ledger.ParseFixed(req.Share)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	inv := &ledger.Investment{
		OwnerID:  session.OwnerID(r.Context()),
		Date:     date,
		Ticker:   req.Ticker,
		Currency: req.Currency,
		Price:    price,
		Share:    share,
	}
	if err := s.store.CreateInvestment(r.Context(), inv); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) listInvestments(w http.ResponseWriter, r *http.Request) {
	lots, err := s.store.ListInvestments(r.Context(), session.OwnerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if lots == nil {
		lots = []ledger.Investment{}
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) deleteInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := s.store.DeleteInvestment(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) investmentSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.portfolio.Summary(r.Context(), session.OwnerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) appendQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	price, err := ledger.ParseAmount(req.Price)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := &ledger.StockPrice{
		Ticker:   req.Ticker,
		Currency: req.Currency,
		Price:    price,
		Provider: req.Provider,
	}
	if err := s.quotes.AppendQuote(r.Context(), q); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) latestQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.LatestQuote(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
