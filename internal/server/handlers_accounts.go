package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/session"
	"github.com/simonvc/homeledger/internal/store"
)

type createAccountRequest struct {
	Name         string             `json:"name" validate:"required,max=200"`
	Type         ledger.AccountType `json:"type" validate:"required,oneof=asset liability equity income expense"`
	IsInvestment bool               `json:"is_investment"`
}

type renameAccountRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	acct, err := ledger.NewAccount(session.OwnerID(r.Context()), req.Name, req.Type, req.IsInvestment)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.CreateAccount(r.Context(), acct); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := store.AccountFilter{OwnerID: session.OwnerID(r.Context())}

	q := r.URL.Query()
	if t := q.Get("type"); t != "" {
		filter.Type = ledger.AccountType(t)
	}
	if inv := q.Get("investment"); inv != "" {
		v := inv == "true" || inv == "1"
		filter.IsInvestment = &v
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	accounts, err := s.store.ListAccounts(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.GetAccount(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) renameAccount(w http.ResponseWriter, r *http.Request) {
	var req renameAccountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	acct, err := s.store.RenameAccount(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) listAccountEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	entries, err := s.store.ListAccountEntries(r.Context(), session.OwnerID(r.Context()), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []ledger.AccountEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
