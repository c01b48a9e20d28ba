package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/session"
)

// periodFromQuery reads year and month, defaulting to the current month.
func periodFromQuery(r *http.Request) (ledger.Period, error) {
	p := ledger.CurrentPeriod(time.Now().UTC())
	q := r.URL.Query()
	if y := q.Get("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return p, ledger.ErrInvalidPeriod
		}
		p.Year = v
	}
	if m := q.Get("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return p, ledger.ErrInvalidPeriod
		}
		p.Month = time.Month(v)
	}
	return p, p.Validate()
}

func (s *Server) netWorth(w http.ResponseWriter, r *http.Request) {
	owner := session.OwnerID(r.Context())
	nw, err := s.store.NetWorth(r.Context(), owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger.NetWorthReport{
		OwnerID:     owner,
		NetWorth:    ledger.ToMajor(nw),
		GeneratedAt: time.Now().UTC(),
	})
}

func (s *Server) incomeExpense(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep, err := s.store.IncomeExpense(r.Context(), session.OwnerID(r.Context()), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) categoryTotals(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	typ := ledger.TypeExpense
	if t := r.URL.Query().Get("type"); t != "" {
		typ = ledger.AccountType(t)
	}
	totals, err := s.store.CategoryTotals(r.Context(), session.OwnerID(r.Context()), p, typ)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if totals == nil {
		totals = []ledger.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := periodFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.store.Dashboard(r.Context(), session.OwnerID(r.Context()), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if d.Expenses == nil {
		d.Expenses = []ledger.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := s.store.TrialBalance(r.Context(), session.OwnerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tb)
}

func (s *Server) verifyBalances(w http.ResponseWriter, r *http.Request) {
	check, err := s.store.VerifyBalances(r.Context(), session.OwnerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}
