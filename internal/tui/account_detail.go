package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

const detailEntryLimit = 50

type accountDetailLoadedMsg struct {
	account *ledger.Account
	entries []ledger.AccountEntry
	err     error
}

type accountDetailModel struct {
	account *ledger.Account
	entries []ledger.AccountEntry
	loading bool
	err     error
	width   int
}

func (m *accountDetailModel) init(c *client.Client, id string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		acct, err := c.GetAccount(context.Background(), id)
		if err != nil {
			return accountDetailLoadedMsg{err: err}
		}
		entries, err := c.ListAccountEntries(context.Background(), id, detailEntryLimit)
		return accountDetailLoadedMsg{account: acct, entries: entries, err: err}
	}
}

func (m accountDetailModel) update(msg tea.Msg) (accountDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountDetailLoadedMsg:
		m.loading = false
		m.account = msg.account
		m.entries = msg.entries
		m.err = msg.err
	}
	return m, nil
}

func (m *accountDetailModel) view() string {
	if m.loading {
		return "Loading account..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.account == nil {
		return ""
	}
	a := m.account

	var b strings.Builder

	b.WriteString(titleStyle.Render("Account: " + a.Name))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("ID:"), a.ID))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Type:"), a.Type.Label()))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Normal side:"), a.NormalSide.Label()))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Balance:"), ledger.FormatPlain(a.Balance)))
	if a.IsInvestment {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Investment:"), "excluded from net worth"))
	}
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  No entries."))
	} else {
		header := fmt.Sprintf("  %-10s %-4s %14s  %s", "DATE", "SIDE", "AMOUNT", "DESCRIPTION")
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")

		for _, e := range m.entries {
			line := fmt.Sprintf("  %-10s %-4s %14s  %s",
				e.Date.Format(ledger.DateLayout), strings.ToUpper(string(e.Side)),
				ledger.FormatPlain(e.Amount), clip(e.Description, 36))
			if e.Side == ledger.SideDebit {
				b.WriteString(debitStyle.Render(line))
			} else {
				b.WriteString(creditStyle.Render(line))
			}
			b.WriteString("\n")
		}
		if len(m.entries) == detailEntryLimit {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  showing the latest %d entries", detailEntryLimit)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
