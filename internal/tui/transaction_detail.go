package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

type txnDetailLoadedMsg struct {
	txn   *ledger.Transaction
	names map[string]string
	err   error
}

type txnDetailModel struct {
	txn     *ledger.Transaction
	names   map[string]string
	loading bool
	err     error
	width   int
}

func (m *txnDetailModel) init(c *client.Client, id string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		txn, err := c.GetTransaction(context.Background(), id)
		if err != nil {
			return txnDetailLoadedMsg{err: err}
		}
		names, err := accountNames(c)
		return txnDetailLoadedMsg{txn: txn, names: names, err: err}
	}
}

// accountNames maps account ids to names for display.
func accountNames(c *client.Client) (map[string]string, error) {
	accounts, err := c.ListAccounts(context.Background(), "", nil)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names, nil
}

func (m txnDetailModel) update(msg tea.Msg) (txnDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnDetailLoadedMsg:
		m.loading = false
		m.txn = msg.txn
		m.names = msg.names
		m.err = msg.err
	}
	return m, nil
}

func (m *txnDetailModel) view() string {
	if m.loading {
		return "Loading transaction..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.txn == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Transaction: %s", m.txn.ID)))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), m.txn.Date.Format(ledger.DateLayout)))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Description:"), m.txn.Description))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Created:"), m.txn.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-4s %-30s %14s %14s", "SIDE", "ACCOUNT", "DEBIT", "CREDIT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, e := range m.txn.Entries {
		name := m.names[e.AccountID]
		if name == "" {
			name = e.AccountID
		}
		debit, credit := "", ""
		style := debitStyle
		if e.Side == ledger.SideDebit {
			debit = ledger.FormatPlain(e.Amount)
		} else {
			credit = ledger.FormatPlain(e.Amount)
			style = creditStyle
		}
		line := fmt.Sprintf("  %-4s %-30s %14s %14s", strings.ToUpper(string(e.Side)), clip(name, 30), debit, credit)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	debit, credit := m.txn.Totals()
	b.WriteString(fmt.Sprintf("  %-35s %14s %14s\n", "", ledger.FormatPlain(debit), ledger.FormatPlain(credit)))

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
