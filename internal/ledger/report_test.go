package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Salary 3000, a 200 purchase and a 50 refund of it.
func TestPeriodTotalsRefund(t *testing.T) {
	var totals PeriodTotals
	totals.Add(TypeIncome, SideCredit, SideCredit, 300000)
	totals.Add(TypeExpense, SideDebit, SideDebit, 20000)
	totals.Add(TypeExpense, SideDebit, SideCredit, 5000)
	totals.Add(TypeAsset, SideDebit, SideDebit, 300000)

	assert.Equal(t, int64(300000), totals.Income)
	assert.Equal(t, int64(15000), totals.Expense)

	r := totals.Report(Period{Year: 2024, Month: time.March})
	assert.Equal(t, "3000.00", r.Income.StringFixed(2))
	assert.Equal(t, "150.00", r.Expense.StringFixed(2))
	assert.Equal(t, "2850.00", r.CashFlow.StringFixed(2))
	assert.Equal(t, "95.00", r.SavingsRate.StringFixed(2))
}

func TestIncomeReversal(t *testing.T) {
	var totals PeriodTotals
	totals.Add(TypeIncome, SideCredit, SideCredit, 1000)
	totals.Add(TypeIncome, SideCredit, SideDebit, 400)
	assert.Equal(t, int64(600), totals.Income)
}

func TestSavingsRate(t *testing.T) {
	assert.True(t, PeriodTotals{}.SavingsRate().IsZero())
	assert.True(t, PeriodTotals{Income: 100, Expense: 200}.SavingsRate().IsZero())
	assert.Equal(t, "25.00", PeriodTotals{Income: 400, Expense: 300}.SavingsRate().StringFixed(2))
}

func TestPeriod(t *testing.T) {
	p := Period{Year: 2024, Month: time.December}
	require.NoError(t, p.Validate())
	from, to := p.Bounds()
	assert.Equal(t, "2024-12-01", from.Format(DateLayout))
	assert.Equal(t, "2025-01-01", to.Format(DateLayout))
	assert.Equal(t, "2024-12", p.String())

	assert.ErrorIs(t, Period{Year: 2024, Month: 13}.Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, Period{Year: 0, Month: 1}.Validate(), ErrInvalidPeriod)
}

func TestTrialBalance(t *testing.T) {
	accounts := []Account{
		{ID: "cash", Type: TypeAsset, NormalSide: SideDebit, Balance: 488000},
		{ID: "salary", Type: TypeIncome, NormalSide: SideCredit, Balance: 500000},
		{ID: "card", Type: TypeLiability, NormalSide: SideCredit, Balance: 12000},
		{ID: "food", Type: TypeExpense, NormalSide: SideDebit, Balance: 24000},
		{ID: "empty", Type: TypeEquity, NormalSide: SideCredit},
	}
	tb := NewTrialBalance(accounts)
	assert.Len(t, tb.Lines, 4)
	assert.Equal(t, int64(512000), tb.TotalDebit)
	assert.Equal(t, int64(512000), tb.TotalCredit)
	assert.True(t, tb.Balanced)
}

func TestTrialBalanceNegative(t *testing.T) {
	tb := NewTrialBalance([]Account{
		{ID: "overdrawn", Type: TypeAsset, NormalSide: SideDebit, Balance: -100},
		{ID: "loan", Type: TypeLiability, NormalSide: SideCredit, Balance: -100},
	})
	assert.Equal(t, int64(100), tb.Lines[0].Credit)
	assert.Equal(t, int64(100), tb.Lines[1].Debit)
	assert.True(t, tb.Balanced)
}
