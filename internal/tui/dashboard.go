package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

type dashboardLoadedMsg struct {
	dashboard *ledger.Dashboard
	err       error
}

type dashboardModel struct {
	period    ledger.Period
	dashboard *ledger.Dashboard
	loading   bool
	err       error
	width     int
	height    int
}

func (m *dashboardModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	p := m.period
	return func() tea.Msg {
		d, err := c.Dashboard(context.Background(), p)
		return dashboardLoadedMsg{dashboard: d, err: err}
	}
}

// shift moves the reporting month by n, crossing year boundaries.
func (m *dashboardModel) shift(n int) {
	from, _ := m.period.Bounds()
	m.period = ledger.CurrentPeriod(from.AddDate(0, n, 0))
}

func (m dashboardModel) update(msg tea.Msg, c *client.Client) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.dashboard = msg.dashboard
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.PrevPage):
			m.shift(-1)
			return m, m.init(c)
		case key.Matches(msg, keys.NextPage):
			m.shift(1)
			return m, m.init(c)
		}
	}
	return m, nil
}

func (m *dashboardModel) view() string {
	if m.loading {
		return "Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.dashboard == nil {
		return ""
	}
	d := m.dashboard
	ie := d.IncomeExpense

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard " + m.period.String()))
	b.WriteString("\n")

	var summary strings.Builder
	summary.WriteString(fmt.Sprintf("%s %14s\n", labelStyle.Render("Net worth"), d.NetWorth.StringFixed(2)))
	summary.WriteString(fmt.Sprintf("%s %14s\n", labelStyle.Render("Income"), ie.Income.StringFixed(2)))
	summary.WriteString(fmt.Sprintf("%s %14s\n", labelStyle.Render("Expense"), ie.Expense.StringFixed(2)))
	summary.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Cash flow"), signed(ie.CashFlow, 14)))
	summary.WriteString(fmt.Sprintf("%s %13s%%", labelStyle.Render("Savings rate"), ie.SavingsRate.StringFixed(2)))
	b.WriteString(boxStyle.Render(summary.String()))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-30s %14s  %s", "EXPENSES", "AMOUNT", "SHARE")))
	b.WriteString("\n")
	if len(d.Expenses) == 0 {
		b.WriteString(dimStyle.Render("  No expenses this month."))
		b.WriteString("\n")
	}
	for _, c := range d.Expenses {
		b.WriteString(fmt.Sprintf("  %-30s %14s  %s\n", clip(c.AccountName, 30), c.Amount.StringFixed(2),
			dimStyle.Render(bar(c.Amount, ie.Expense, 20))))
	}

	b.WriteString("\n" + dimStyle.Render("  left/right: change month"))
	return b.String()
}

// bar draws part/total as a block gauge of the given width.
func bar(part, total decimal.Decimal, width int) string {
	if !total.IsPositive() || !part.IsPositive() {
		return ""
	}
	n := int(part.Div(total).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

func signed(d decimal.Decimal, width int) string {
	s := fmt.Sprintf("%*s", width, d.StringFixed(2))
	switch {
	case d.IsPositive():
		return gainStyle.Render(s)
	case d.IsNegative():
		return lossStyle.Render(s)
	default:
		return s
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}
