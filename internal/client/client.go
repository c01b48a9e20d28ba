package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/simonvc/homeledger/internal/portfolio"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response. It unwraps to the ledger error kind that
// matches the status, so callers can use ledger.IsNotFound and friends.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest, http.StatusConflict:
		return ledger.ErrValidation
	case http.StatusNotFound:
		return ledger.ErrNotFound
	case http.StatusForbidden:
		return ledger.ErrUnauthorized
	default:
		return nil
	}
}

func (c *Client) CreateAccount(ctx context.Context, name string, typ ledger.AccountType, isInvestment bool) (*ledger.Account, error) {
	body := map[string]any{
		"name":          name,
		"type":          typ,
		"is_investment": isInvestment,
	}
	var result ledger.Account
	if err := c.post(ctx, "/api/v1/accounts", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, typ string, investment *bool) ([]ledger.Account, error) {
	params := url.Values{}
	if typ != "" {
		params.Set("type", typ)
	}
	if investment != nil {
		params.Set("investment", strconv.FormatBool(*investment))
	}
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/accounts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RenameAccount(ctx context.Context, id, newName string) (*ledger.Account, error) {
	body := map[string]any{"name": newName}
	var result ledger.Account
	if err := c.send(ctx, http.MethodPatch, "/api/v1/accounts/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccountEntries(ctx context.Context, id string, limit int) ([]ledger.AccountEntry, error) {
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/entries"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var result []ledger.AccountEntry
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TransactionInput is the body for creating or replacing a transaction.
// An empty Date means today on the server.
type TransactionInput struct {
	Date        string
	Description string
	Entries     []ledger.Entry
}

func (in TransactionInput) body() map[string]any {
	type entryReq struct {
		AccountID string      `json:"account_id"`
		Side      ledger.Side `json:"side"`
		Amount    int64       `json:"amount"`
	}
	entries := make([]entryReq, len(in.Entries))
	for i, e := range in.Entries {
		entries[i] = entryReq{AccountID: e.AccountID, Side: e.Side, Amount: e.Amount}
	}
	return map[string]any{
		"date":        in.Date,
		"description": in.Description,
		"entries":     entries,
	}
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.post(ctx, "/api/v1/transactions", in.body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ReplaceTransaction(ctx context.Context, id string, in TransactionInput) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.send(ctx, http.MethodPut, "/api/v1/transactions/"+url.PathEscape(id), in.body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.send(ctx, http.MethodDelete, "/api/v1/transactions/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type TxnQuery struct {
	AccountID string
	From      string
	To        string
	Limit     int
}

func (c *Client) ListTransactions(ctx context.Context, q TxnQuery) ([]ledger.Transaction, error) {
	params := url.Values{}
	if q.AccountID != "" {
		params.Set("account_id", q.AccountID)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	var result []ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TransactionDescriptions(ctx context.Context) ([]string, error) {
	var result []string
	if err := c.get(ctx, "/api/v1/transactions/descriptions", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// InvestmentInput carries price and share as decimal strings.
type InvestmentInput struct {
	Date     string `json:"date,omitempty"`
	Ticker   string `json:"ticker"`
	Currency string `json:"currency,omitempty"`
	Price    string `json:"price"`
	Share    string `json:"share"`
}

func (c *Client) CreateInvestment(ctx context.Context, in InvestmentInput) (*ledger.Investment, error) {
	var result ledger.Investment
	if err := c.post(ctx, "/api/v1/investments", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListInvestments(ctx context.Context) ([]ledger.Investment, error) {
	var result []ledger.Investment
	if err := c.get(ctx, "/api/v1/investments", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) DeleteInvestment(ctx context.Context, id string) (*ledger.Investment, error) {
	var result ledger.Investment
	if err := c.send(ctx, http.MethodDelete, "/api/v1/investments/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) InvestmentSummary(ctx context.Context) (*portfolio.Summary, error) {
	var result portfolio.Summary
	if err := c.get(ctx, "/api/v1/investments/summary", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type QuoteInput struct {
	Ticker   string `json:"ticker"`
	Currency string `json:"currency,omitempty"`
	Price    string `json:"price"`
	Provider string `json:"provider,omitempty"`
}

func (c *Client) AppendQuote(ctx context.Context, in QuoteInput) (*ledger.StockPrice, error) {
	var result ledger.StockPrice
	if err := c.post(ctx, "/api/v1/quotes", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) LatestQuote(ctx context.Context, ticker string) (*ledger.StockPrice, error) {
	var result ledger.StockPrice
	if err := c.get(ctx, "/api/v1/quotes/"+url.PathEscape(ticker)+"/latest", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func periodParams(p ledger.Period) url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(p.Year))
	params.Set("month", strconv.Itoa(int(p.Month)))
	return params
}

func (c *Client) NetWorth(ctx context.Context) (*ledger.NetWorthReport, error) {
	var result ledger.NetWorthReport
	if err := c.get(ctx, "/api/v1/reports/net-worth", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) IncomeExpense(ctx context.Context, p ledger.Period) (*ledger.IncomeExpense, error) {
	var result ledger.IncomeExpense
	if err := c.get(ctx, "/api/v1/reports/income-expense?"+periodParams(p).Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CategoryTotals(ctx context.Context, p ledger.Period, typ ledger.AccountType) ([]ledger.CategoryTotal, error) {
	params := periodParams(p)
	params.Set("type", string(typ))
	var result []ledger.CategoryTotal
	if err := c.get(ctx, "/api/v1/reports/categories?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Dashboard(ctx context.Context, p ledger.Period) (*ledger.Dashboard, error) {
	var result ledger.Dashboard
	if err := c.get(ctx, "/api/v1/reports/dashboard?"+periodParams(p).Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TrialBalance(ctx context.Context) (*ledger.TrialBalance, error) {
	var result ledger.TrialBalance
	if err := c.get(ctx, "/api/v1/reports/trial-balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) VerifyBalances(ctx context.Context) (*ledger.BalanceCheck, error) {
	var result ledger.BalanceCheck
	if err := c.get(ctx, "/api/v1/reports/check", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.send(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, http.MethodPost, path, body, result)
}

func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(bodyBytes)}
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
