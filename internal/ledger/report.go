package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a calendar month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: now.Month()}
}

func (p Period) Validate() error {
	if p.Year < 1900 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	return nil
}

// Bounds returns the first day of the month and the first day of the next.
func (p Period) Bounds() (from, to time.Time) {
	from = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// PeriodTotals accumulates income and expense in minor units.
type PeriodTotals struct {
	Income  int64
	Expense int64
}

// Add folds one entry into the totals using its side relative to the
// account's normal side, so a debit to an income account (a refund)
// reduces income and a credit to an expense account reduces expense.
func (p *PeriodTotals) Add(t AccountType, normal, side Side, amount int64) {
	switch t {
	case TypeIncome:
		p.Income += Effect(normal, side, amount)
	case TypeExpense:
		p.Expense += Effect(normal, side, amount)
	}
}

func (p PeriodTotals) CashFlow() int64 {
	return p.Income - p.Expense
}

// SavingsRate is cash flow as a percentage of income, zero when there is no
// income or the month ran at a loss.
func (p PeriodTotals) SavingsRate() decimal.Decimal {
	cf := p.CashFlow()
	if p.Income <= 0 || cf < 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(cf).Div(decimal.NewFromInt(p.Income)).Mul(hundred).Round(2)
}

// IncomeExpense is the monthly report in major units.
type IncomeExpense struct {
	Period
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	CashFlow    decimal.Decimal `json:"cash_flow"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
}

func (p PeriodTotals) Report(period Period) IncomeExpense {
	return IncomeExpense{
		Period:      period,
		Income:      ToMajor(p.Income),
		Expense:     ToMajor(p.Expense),
		CashFlow:    ToMajor(p.CashFlow()),
		SavingsRate: p.SavingsRate(),
	}
}

// CategoryTotal is the normal-side-relative sum of one account's entries in
// a period.
type CategoryTotal struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Type        AccountType     `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
}

type NetWorthReport struct {
	OwnerID     string          `json:"owner_id"`
	NetWorth    decimal.Decimal `json:"net_worth"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type Dashboard struct {
	NetWorth      decimal.Decimal `json:"net_worth"`
	IncomeExpense IncomeExpense   `json:"income_expense"`
	Expenses      []CategoryTotal `json:"expenses"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// BalanceDrift reports an account whose stored balance disagrees with the
// sum of its entries.
type BalanceDrift struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Stored    int64  `json:"stored"`
	Computed  int64  `json:"computed"`
}

type BalanceCheck struct {
	Accounts    int            `json:"accounts"`
	Drift       []BalanceDrift `json:"drift"`
	Consistent  bool           `json:"consistent"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// TrialBalanceLine places an account's balance in the debit or credit column.
type TrialBalanceLine struct {
	AccountID   string      `json:"account_id"`
	AccountName string      `json:"account_name"`
	Type        AccountType `json:"type"`
	Debit       int64       `json:"debit"`
	Credit      int64       `json:"credit"`
}

type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  int64              `json:"total_debit"`
	TotalCredit int64              `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// NewTrialBalance lays out accounts in debit/credit columns. A debit-normal
// account with a negative balance lands in the credit column and vice versa.
// Zero balances are skipped.
func NewTrialBalance(accounts []Account) *TrialBalance {
	tb := &TrialBalance{GeneratedAt: time.Now().UTC()}
	for _, a := range accounts {
		if a.Balance == 0 {
			continue
		}
		line := TrialBalanceLine{AccountID: a.ID, AccountName: a.Name, Type: a.Type}
		side := a.NormalSide
		amount := a.Balance
		if amount < 0 {
			side = side.Opposite()
			amount = -amount
		}
		if side == SideDebit {
			line.Debit = amount
			tb.TotalDebit += amount
		} else {
			line.Credit = amount
			tb.TotalCredit += amount
		}
		tb.Lines = append(tb.Lines, line)
	}
	tb.Balanced = tb.TotalDebit == tb.TotalCredit
	return tb
}
