package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/session"
	"github.com/simonvc/homeledger/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("server-test-secret")

type apiClient struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(st, st, Options{JWTSecret: testSecret, Logger: zerolog.Nop()}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func clientFor(t *testing.T, srv *httptest.Server, owner string) *apiClient {
	token, err := session.Issue(testSecret, owner, time.Hour)
	require.NoError(t, err)
	return &apiClient{t: t, srv: srv, token: token}
}

func (c *apiClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) account(name string, typ ledger.AccountType) ledger.Account {
	c.t.Helper()
	var acct ledger.Account
	status := c.do("POST", "/api/v1/accounts", map[string]any{"name": name, "type": typ}, &acct)
	require.Equal(c.t, http.StatusCreated, status)
	return acct
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	anon := &apiClient{t: t, srv: srv}
	var resp errorResponse
	assert.Equal(t, http.StatusUnauthorized, anon.do("GET", "/api/v1/accounts", nil, &resp))
	assert.Equal(t, "authorization header required", resp.Error)

	forged := &apiClient{t: t, srv: srv, token: "not-a-jwt"}
	assert.Equal(t, http.StatusUnauthorized, forged.do("GET", "/api/v1/accounts", nil, nil))
}

func TestAccountsAPI(t *testing.T) {
	srv := newTestServer(t)
	alice := clientFor(t, srv, "alice")
	bob := clientFor(t, srv, "bob")

	checking := alice.account("Checking", ledger.TypeAsset)
	assert.Equal(t, ledger.SideDebit, checking.NormalSide)
	assert.Equal(t, "alice", checking.OwnerID)

	var errResp errorResponse
	status := alice.do("POST", "/api/v1/accounts", map[string]any{"name": "Checking", "type": "asset"}, &errResp)
	assert.Equal(t, http.StatusConflict, status)

	status = alice.do("POST", "/api/v1/accounts", map[string]any{"name": "X", "type": "revenue"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errResp.Details, "createAccountRequest.Type")

	assert.Equal(t, http.StatusForbidden, bob.do("GET", "/api/v1/accounts/"+checking.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do("GET", "/api/v1/accounts/missing", nil, nil))

	var renamed ledger.Account
	status = alice.do("PATCH", "/api/v1/accounts/"+checking.ID, map[string]string{"name": "Current"}, &renamed)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Current", renamed.Name)

	var list []ledger.Account
	require.Equal(t, http.StatusOK, bob.do("GET", "/api/v1/accounts", nil, &list))
	assert.Empty(t, list)
}

func TestTransactionsAPI(t *testing.T) {
	srv := newTestServer(t)
	alice := clientFor(t, srv, "alice")

	checking := alice.account("Checking", ledger.TypeAsset)
	salary := alice.account("Salary", ledger.TypeIncome)
	groceries := alice.account("Groceries", ledger.TypeExpense)

	body := map[string]any{
		"date":        "2024-03-01",
		"description": "Salary",
		"entries": []map[string]any{
			{"account_id": checking.ID, "side": "dr", "amount": 500000},
			{"account_id": salary.ID, "side": "cr", "amount": 500000},
		},
	}
	var txn ledger.Transaction
	require.Equal(t, http.StatusCreated, alice.do("POST", "/api/v1/transactions", body, &txn))
	assert.NotEmpty(t, txn.ID)

	var acct ledger.Account
	alice.do("GET", "/api/v1/accounts/"+checking.ID, nil, &acct)
	assert.Equal(t, int64(500000), acct.Balance)

	var errResp errorResponse
	unbalanced := map[string]any{
		"entries": []map[string]any{
			{"account_id": checking.ID, "side": "dr", "amount": 100},
			{"account_id": groceries.ID, "side": "cr", "amount": 90},
		},
	}
	assert.Equal(t, http.StatusBadRequest, alice.do("POST", "/api/v1/transactions", unbalanced, &errResp))
	assert.Contains(t, errResp.Error, "amounts don't add up")

	huge := map[string]any{
		"entries": []map[string]any{
			{"account_id": checking.ID, "side": "dr", "amount": int64(math.MaxInt64)},
			{"account_id": salary.ID, "side": "cr", "amount": int64(math.MaxInt64)},
		},
	}
	assert.Equal(t, http.StatusBadRequest, alice.do("POST", "/api/v1/transactions", huge, nil))
	alice.do("GET", "/api/v1/accounts/"+checking.ID, nil, &acct)
	assert.Equal(t, int64(500000), acct.Balance)

	replacement := map[string]any{
		"date":        "2024-03-02",
		"description": "Salary (corrected)",
		"entries": []map[string]any{
			{"account_id": checking.ID, "side": "dr", "amount": 480000},
			{"account_id": salary.ID, "side": "cr", "amount": 480000},
		},
	}
	require.Equal(t, http.StatusOK, alice.do("PUT", "/api/v1/transactions/"+txn.ID, replacement, nil))
	alice.do("GET", "/api/v1/accounts/"+checking.ID, nil, &acct)
	assert.Equal(t, int64(480000), acct.Balance)

	var descs []string
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/transactions/descriptions", nil, &descs))
	assert.Equal(t, []string{"Salary (corrected)"}, descs)

	var deleted ledger.Transaction
	require.Equal(t, http.StatusOK, alice.do("DELETE", "/api/v1/transactions/"+txn.ID, nil, &deleted))
	assert.Equal(t, txn.ID, deleted.ID)
	alice.do("GET", "/api/v1/accounts/"+checking.ID, nil, &acct)
	assert.Zero(t, acct.Balance)

	assert.Equal(t, http.StatusNotFound, alice.do("GET", "/api/v1/transactions/"+txn.ID, nil, nil))
}

func TestReportsAPI(t *testing.T) {
	srv := newTestServer(t)
	alice := clientFor(t, srv, "alice")

	checking := alice.account("Checking", ledger.TypeAsset)
	salary := alice.account("Salary", ledger.TypeIncome)
	groceries := alice.account("Groceries", ledger.TypeExpense)

	post := func(date string, entries ...map[string]any) {
		status := alice.do("POST", "/api/v1/transactions", map[string]any{"date": date, "entries": entries}, nil)
		require.Equal(t, http.StatusCreated, status)
	}
	post("2024-03-01",
		map[string]any{"account_id": checking.ID, "side": "dr", "amount": 300000},
		map[string]any{"account_id": salary.ID, "side": "cr", "amount": 300000})
	post("2024-03-05",
		map[string]any{"account_id": groceries.ID, "side": "dr", "amount": 20000},
		map[string]any{"account_id": checking.ID, "side": "cr", "amount": 20000})

	var ie struct {
		Income      json.Number `json:"income"`
		Expense     json.Number `json:"expense"`
		SavingsRate json.Number `json:"savings_rate"`
	}
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/reports/income-expense?year=2024&month=3", nil, &ie))
	assert.Equal(t, "3000", ie.Income.String())
	assert.Equal(t, "200", ie.Expense.String())

	assert.Equal(t, http.StatusBadRequest, alice.do("GET", "/api/v1/reports/income-expense?year=2024&month=13", nil, nil))

	var dash map[string]any
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/reports/dashboard?year=2024&month=3", nil, &dash))
	assert.Equal(t, "2800", dash["net_worth"])

	var check ledger.BalanceCheck
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/reports/check", nil, &check))
	assert.True(t, check.Consistent)
	assert.Equal(t, 3, check.Accounts)
}

func TestInvestmentsAPI(t *testing.T) {
	srv := newTestServer(t)
	alice := clientFor(t, srv, "alice")

	for _, lot := range []map[string]string{
		{"ticker": "acme", "price": "10", "share": "5", "date": "2024-01-02"},
		{"ticker": "ACME", "price": "12", "share": "3", "date": "2024-02-02"},
	} {
		require.Equal(t, http.StatusCreated, alice.do("POST", "/api/v1/investments", lot, nil))
	}
	require.Equal(t, http.StatusCreated, alice.do("POST", "/api/v1/quotes", map[string]string{"ticker": "ACME", "price": "15.00"}, nil))

	var latest ledger.StockPrice
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/quotes/acme/latest", nil, &latest))
	assert.Equal(t, int64(1500), latest.Price)

	var summary struct {
		Positions []struct {
			Ticker       string `json:"ticker"`
			AveragePrice string `json:"average_price"`
			MarketValue  string `json:"market_value"`
			HasQuote     bool   `json:"has_quote"`
		} `json:"positions"`
		Totals []struct {
			Currency string `json:"currency"`
			Gain     string `json:"gain"`
		} `json:"totals"`
	}
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/investments/summary", nil, &summary))
	require.Len(t, summary.Positions, 1)
	assert.Equal(t, "10.75", summary.Positions[0].AveragePrice)
	assert.Equal(t, "120", summary.Positions[0].MarketValue)
	require.Len(t, summary.Totals, 1)
	assert.Equal(t, "USD", summary.Totals[0].Currency)
	assert.Equal(t, "34", summary.Totals[0].Gain)

	var lots []ledger.Investment
	require.Equal(t, http.StatusOK, alice.do("GET", "/api/v1/investments", nil, &lots))
	require.Len(t, lots, 2)

	bob := clientFor(t, srv, "bob")
	assert.Equal(t, http.StatusForbidden, bob.do("DELETE", "/api/v1/investments/"+lots[0].ID, nil, nil))
	assert.Equal(t, http.StatusOK, alice.do("DELETE", "/api/v1/investments/"+lots[0].ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do("GET", fmt.Sprintf("/api/v1/quotes/%s/latest", "NOPE"), nil, nil))
}
