package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/session"
	"github.com/simonvc/homeledger/internal/store"
)

type entryRequest struct {
	AccountID string      `json:"account_id" validate:"required"`
	Side      ledger.Side `json:"side" validate:"required,oneof=dr cr"`
	Amount    int64       `json:"amount" validate:"gt=0,lte=1000000000000000"`
}

type transactionRequest struct {
	Date        string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string         `json:"description" validate:"max=500"`
	Entries     []entryRequest `json:"entries" validate:"required,min=1,dive"`
}

func (req *transactionRequest) toTransaction(ownerID string) (*ledger.Transaction, error) {
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	txn := &ledger.Transaction{
		OwnerID:     ownerID,
		Date:        date,
		Description: req.Description,
	}
	for _, e := range req.Entries {
		txn.Entries = append(txn.Entries, ledger.Entry{
			AccountID: e.AccountID,
			Side:      e.Side,
			Amount:    e.Amount,
		})
	}
	return txn, nil
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := req.toTransaction(session.OwnerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateTransaction(r.Context(), txn); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) replaceTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	owner := session.OwnerID(r.Context())
	txn, err := req.toTransaction(owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.ReplaceTransaction(r.Context(), owner, chi.URLParam(r, "id"), txn); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.store.DeleteTransaction(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TxnFilter{
		OwnerID:   session.OwnerID(r.Context()),
		AccountID: q.Get("account_id"),
	}
	if from := q.Get("from"); from != "" {
		d, err := ledger.ParseDate(from)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.From = d
	}
	if to := q.Get("to"); to != "" {
		d, err := ledger.ParseDate(to)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.To = d
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	txns, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.store.GetTransaction(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) transactionDescriptions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	descs, err := s.store.TransactionDescriptions(r.Context(), session.OwnerID(r.Context()), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if descs == nil {
		descs = []string{}
	}
	writeJSON(w, http.StatusOK, descs)
}
