package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

type accountsLoadedMsg struct {
	accounts []ledger.Account
	err      error
}

// accountRenameRequestMsg is sent when the user submits a new name.
type accountRenameRequestMsg struct {
	id   string
	name string
}

type accountRenamedMsg struct {
	id  string
	err error
}

type accountListModel struct {
	accounts  []ledger.Account
	cursor    int
	loading   bool
	err       error
	width     int
	height    int
	renaming  bool
	nameInput textinput.Model
}

func (m *accountListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		accounts, err := c.ListAccounts(context.Background(), "", nil)
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m accountListModel) update(msg tea.Msg) (accountListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.accounts = msg.accounts
		m.err = msg.err
		if m.cursor >= len(m.accounts) {
			m.cursor = max(len(m.accounts)-1, 0)
		}

	case accountRenamedMsg:
		m.renaming = false
		m.err = msg.err

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.accounts)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Rename):
			if a := m.selected(); a != nil {
				m.nameInput = textinput.New()
				m.nameInput.CharLimit = 100
				m.nameInput.SetValue(a.Name)
				m.nameInput.Focus()
				m.renaming = true
				m.err = nil
				return m, textinput.Blink
			}
		}
	}
	return m, nil
}

func (m accountListModel) updateRename(msg tea.KeyMsg) (accountListModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.renaming = false
		return m, nil
	case key.Matches(msg, keys.Enter):
		a := m.selected()
		name := strings.TrimSpace(m.nameInput.Value())
		if a == nil || name == "" || name == a.Name {
			m.renaming = false
			return m, nil
		}
		id := a.ID
		return m, func() tea.Msg {
			return accountRenameRequestMsg{id: id, name: name}
		}
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *accountListModel) selected() *ledger.Account {
	if m.cursor >= 0 && m.cursor < len(m.accounts) {
		return &m.accounts[m.cursor]
	}
	return nil
}

func (m *accountListModel) selectedID() string {
	if a := m.selected(); a != nil {
		return a.ID
	}
	return ""
}

func (m *accountListModel) view() string {
	if m.loading {
		return "Loading accounts..."
	}
	if m.err != nil && len(m.accounts) == 0 {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.accounts) == 0 {
		return dimStyle.Render("No accounts yet. Create one with `homeledger account create`.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Accounts"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-30s %-10s %-7s %14s %s", "NAME", "TYPE", "NORMAL", "BALANCE", "")
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

	for i := start; i < len(m.accounts) && i < start+maxRows; i++ {
		a := m.accounts[i]
		inv := ""
		if a.IsInvestment {
			inv = "inv"
		}
		line := fmt.Sprintf("  %-30s %-10s %-7s %14s %s",
			clip(a.Name, 30), a.Type, a.NormalSide.Label(), ledger.FormatPlain(a.Balance), inv)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	switch {
	case m.renaming:
		b.WriteString("\n  Rename to: " + m.nameInput.View())
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()))
	default:
		b.WriteString(fmt.Sprintf("\n  %d accounts", len(m.accounts)))
	}

	return b.String()
}
