package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

const txnListLimit = 200

type txnsLoadedMsg struct {
	txns []ledger.Transaction
	err  error
}

// txnDeleteConfirmedMsg is sent when the user confirms deletion.
type txnDeleteConfirmedMsg struct {
	id string
}

// txnDeletedMsg is sent after the server reverses and removes the transaction.
type txnDeletedMsg struct {
	id  string
	err error
}

type txnListModel struct {
	txns           []ledger.Transaction
	cursor         int
	loading        bool
	err            error
	width          int
	height         int
	confirmDelete  bool
	deleteTargetID string
}

func (m *txnListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		txns, err := c.ListTransactions(context.Background(), client.TxnQuery{Limit: txnListLimit})
		return txnsLoadedMsg{txns: txns, err: err}
	}
}

func (m txnListModel) update(msg tea.Msg) (txnListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnsLoadedMsg:
		m.loading = false
		m.txns = msg.txns
		m.err = msg.err
		if m.cursor >= len(m.txns) {
			m.cursor = max(len(m.txns)-1, 0)
		}

	case txnDeletedMsg:
		m.confirmDelete = false
		m.deleteTargetID = ""
		m.err = msg.err

	case tea.KeyMsg:
		if m.confirmDelete {
			switch msg.String() {
			case "y", "Y":
				id := m.deleteTargetID
				m.confirmDelete = false
				return m, func() tea.Msg {
					return txnDeleteConfirmedMsg{id: id}
				}
			default:
				m.confirmDelete = false
				m.deleteTargetID = ""
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.txns)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if id := m.selectedID(); id != "" {
				m.confirmDelete = true
				m.deleteTargetID = id
				m.err = nil
			}
		}
	}
	return m, nil
}

func (m *txnListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.txns) {
		return m.txns[m.cursor].ID
	}
	return ""
}

func (m *txnListModel) view() string {
	if m.loading {
		return "Loading transactions..."
	}
	if m.err != nil && len(m.txns) == 0 {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.txns) == 0 {
		return dimStyle.Render("No transactions yet. Press 'n' to post one.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Transactions"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-10s %-40s %7s %14s", "DATE", "DESCRIPTION", "ENTRIES", "AMOUNT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.txns) && i < start+maxRows; i++ {
		t := m.txns[i]
		debit, _ := t.Totals()
		line := fmt.Sprintf("  %-10s %-40s %7d %14s",
			t.Date.Format(ledger.DateLayout),
			clip(t.Description, 40),
			len(t.Entries),
			ledger.FormatPlain(debit),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	switch {
	case m.confirmDelete:
		b.WriteString("\n" + errorStyle.Render("  Delete this transaction and reverse its entries? (y/n)"))
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()))
	default:
		b.WriteString(fmt.Sprintf("\n  %d transactions", len(m.txns)))
	}
	return b.String()
}
