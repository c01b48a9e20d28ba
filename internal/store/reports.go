package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
)

// NetWorth is assets minus liabilities over the owner's non-investment
// accounts, in minor units.
func (s *Store) NetWorth(ctx context.Context, ownerID string) (int64, error) {
	return netWorth(ctx, s.reader, ownerID)
}

func netWorth(ctx context.Context, q queryer, ownerID string) (int64, error) {
	accounts, err := listAccounts(ctx, q, AccountFilter{OwnerID: ownerID})
	if err != nil {
		return 0, err
	}
	return ledger.NetWorth(accounts), nil
}

// IncomeExpense totals the month's income and expense entries by their side
// relative to the account's normal side.
func (s *Store) IncomeExpense(ctx context.Context, ownerID string, period ledger.Period) (*ledger.IncomeExpense, error) {
	return incomeExpense(ctx, s.reader, ownerID, period)
}

func incomeExpense(ctx context.Context, q queryer, ownerID string, period ledger.Period) (*ledger.IncomeExpense, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	from, to := period.Bounds()

	rows, err := q.QueryContext(ctx,
		`SELECT a.type, a.normal_side, e.side, e.amount
		FROM entries e
		JOIN accounts a ON a.id = e.account_id
		JOIN transactions t ON t.id = e.transaction_id
		WHERE t.owner_id = ? AND t.date >= ? AND t.date < ?
			AND a.type IN ('income','expense')`,
		ownerID, formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("income/expense query: %w", err)
	}
	defer rows.Close()

	var totals ledger.PeriodTotals
	for rows.Next() {
		var typ ledger.AccountType
		var normal, side ledger.Side
		var amount int64
		if err := rows.Scan(&typ, &normal, &side, &amount); err != nil {
			return nil, fmt.Errorf("scan income/expense: %w", err)
		}
		totals.Add(typ, normal, side, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report := totals.Report(period)
	return &report, nil
}

// CategoryTotals sums the month's entries per account of the given type,
// largest first. Accounts without activity in the month are omitted.
func (s *Store) CategoryTotals(ctx context.Context, ownerID string, period ledger.Period, typ ledger.AccountType) ([]ledger.CategoryTotal, error) {
	return categoryTotals(ctx, s.reader, ownerID, period, typ)
}

// ExpenseByCategory is CategoryTotals for expense accounts.
func (s *Store) ExpenseByCategory(ctx context.Context, ownerID string, period ledger.Period) ([]ledger.CategoryTotal, error) {
	return categoryTotals(ctx, s.reader, ownerID, period, ledger.TypeExpense)
}

func categoryTotals(ctx context.Context, q queryer, ownerID string, period ledger.Period, typ ledger.AccountType) ([]ledger.CategoryTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrInvalidAccountType, typ)
	}
	from, to := period.Bounds()

	rows, err := q.QueryContext(ctx,
		`SELECT a.id, a.name, a.type,
			SUM(CASE WHEN e.side = a.normal_side THEN e.amount ELSE -e.amount END) AS total
		FROM entries e
		JOIN accounts a ON a.id = e.account_id
		JOIN transactions t ON t.id = e.transaction_id
		WHERE a.owner_id = ? AND a.type = ? AND t.date >= ? AND t.date < ?
		GROUP BY a.id
		ORDER BY total DESC, a.name`,
		ownerID, string(typ), formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("category totals query: %w", err)
	}
	defer rows.Close()

	var out []ledger.CategoryTotal
	for rows.Next() {
		var ct ledger.CategoryTotal
		var total int64
		if err := rows.Scan(&ct.AccountID, &ct.AccountName, &ct.Type, &total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Amount = ledger.ToMajor(total)
		out = append(out, ct)
	}
	return out, rows.Err()
}

// Dashboard reads net worth, the month's income/expense and expense
// categories from one read-only snapshot.
func (s *Store) Dashboard(ctx context.Context, ownerID string, period ledger.Period) (*ledger.Dashboard, error) {
	tx, err := s.reader.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	nw, err := netWorth(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}
	ie, err := incomeExpense(ctx, tx, ownerID, period)
	if err != nil {
		return nil, err
	}
	expenses, err := categoryTotals(ctx, tx, ownerID, period, ledger.TypeExpense)
	if err != nil {
		return nil, err
	}

	return &ledger.Dashboard{
		NetWorth:      ledger.ToMajor(nw),
		IncomeExpense: *ie,
		Expenses:      expenses,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// TrialBalance lays the owner's stored balances out in debit and credit columns.
func (s *Store) TrialBalance(ctx context.Context, ownerID string) (*ledger.TrialBalance, error) {
	accounts, err := listAccounts(ctx, s.reader, AccountFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	return ledger.NewTrialBalance(accounts), nil
}

// VerifyBalances recomputes every account balance from its entries and
// reports accounts whose stored balance has drifted.
func (s *Store) VerifyBalances(ctx context.Context, ownerID string) (*ledger.BalanceCheck, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT a.id, a.name, a.balance,
			COALESCE(SUM(CASE WHEN e.side = a.normal_side THEN e.amount ELSE -e.amount END), 0)
		FROM accounts a
		LEFT JOIN entries e ON e.account_id = a.id
		WHERE a.owner_id = ?
		GROUP BY a.id
		ORDER BY a.name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("verify balances query: %w", err)
	}
	defer rows.Close()

	check := &ledger.BalanceCheck{GeneratedAt: time.Now().UTC()}
	for rows.Next() {
		var d ledger.BalanceDrift
		if err := rows.Scan(&d.AccountID, &d.Name, &d.Stored, &d.Computed); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		check.Accounts++
		if d.Stored != d.Computed {
			check.Drift = append(check.Drift, d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	check.Consistent = len(check.Drift) == 0
	return check, nil
}
