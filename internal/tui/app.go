// Package tui is the terminal dashboard. Every view talks to the HTTP API
// through client.Client, so it works against a local or remote server.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

type mode int

const (
	modeDashboard mode = iota
	modeAccountList
	modeAccountDetail
	modeTransactionList
	modeTransactionDetail
	modePositions
	modeJournalEntry
)

var tabModes = []mode{modeDashboard, modeAccountList, modeTransactionList, modePositions}

func tabLabel(m mode) string {
	switch m {
	case modeDashboard:
		return "Dashboard"
	case modeAccountList:
		return "Accounts"
	case modeTransactionList:
		return "Transactions"
	case modePositions:
		return "Investments"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	now           func() time.Time
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	dashboard     dashboardModel
	accountList   accountListModel
	accountDetail accountDetailModel
	txnList       txnListModel
	txnDetail     txnDetailModel
	positions     positionsModel
	journalEntry  journalEntryModel
}

func NewApp(c *client.Client) *App {
	app := &App{
		client: c,
		now:    time.Now,
		mode:   modeDashboard,
	}
	app.dashboard.period = ledger.CurrentPeriod(app.now())
	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.init(a.client),
		a.accountList.init(a.client),
		a.txnList.init(a.client),
		a.positions.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.width, a.dashboard.height = msg.Width, msg.Height-6
		a.accountList.width, a.accountList.height = msg.Width, msg.Height-6
		a.txnList.width, a.txnList.height = msg.Width, msg.Height-6
		a.positions.width, a.positions.height = msg.Width, msg.Height-6
		a.accountDetail.width = msg.Width
		a.txnDetail.width = msg.Width
		a.journalEntry.width = msg.Width
		return a, nil
	}

	// Loads are fired for every tab at once, so route results by type rather
	// than by the active mode.
	switch typedMsg := msg.(type) {
	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg, a.client)
		return a, cmd
	case accountsLoadedMsg:
		var cmd tea.Cmd
		a.accountList, cmd = a.accountList.update(msg)
		return a, cmd
	case txnsLoadedMsg:
		var cmd tea.Cmd
		a.txnList, cmd = a.txnList.update(msg)
		return a, cmd
	case positionsLoadedMsg:
		var cmd tea.Cmd
		a.positions, cmd = a.positions.update(msg)
		return a, cmd
	case accountDetailLoadedMsg:
		var cmd tea.Cmd
		a.accountDetail, cmd = a.accountDetail.update(msg)
		return a, cmd
	case txnDetailLoadedMsg:
		var cmd tea.Cmd
		a.txnDetail, cmd = a.txnDetail.update(msg)
		return a, cmd
	case accountRenameRequestMsg:
		id, name := typedMsg.id, typedMsg.name
		return a, func() tea.Msg {
			_, err := a.client.RenameAccount(context.Background(), id, name)
			return accountRenamedMsg{id: id, err: err}
		}
	case accountRenamedMsg:
		a.accountList, _ = a.accountList.update(msg)
		if typedMsg.err != nil {
			return a, nil
		}
		a.statusMsg = "Account renamed"
		return a, a.accountList.init(a.client)
	case txnDeleteConfirmedMsg:
		id := typedMsg.id
		return a, func() tea.Msg {
			_, err := a.client.DeleteTransaction(context.Background(), id)
			return txnDeletedMsg{id: id, err: err}
		}
	case txnDeletedMsg:
		a.txnList, _ = a.txnList.update(msg)
		if typedMsg.err != nil {
			return a, nil
		}
		a.statusMsg = "Transaction " + typedMsg.id + " deleted"
		return a, a.refreshAll()
	}

	// Modal: delegate every message type, not just keys.
	if a.mode == modeJournalEntry {
		var cmd tea.Cmd
		a.journalEntry, cmd = a.journalEntry.update(msg, a.client)
		if a.journalEntry.done {
			a.mode = modeTransactionList
			a.statusMsg = a.journalEntry.statusMsg
			return a, a.refreshAll()
		}
		if a.journalEntry.cancelled {
			a.mode = modeTransactionList
			a.statusMsg = "Transaction cancelled"
		}
		return a, cmd
	}

	// Inline prompts own the keyboard until they close.
	if (a.mode == modeAccountList && a.accountList.renaming) ||
		(a.mode == modeTransactionList && a.txnList.confirmDelete) {
		return a, a.delegate(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			return a, a.switchTab(1)

		case key.Matches(msg, keys.ShiftTab):
			return a, a.switchTab(-1)

		case key.Matches(msg, keys.Refresh):
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			switch a.mode {
			case modeAccountDetail:
				a.mode = modeAccountList
			case modeTransactionDetail:
				a.mode = modeTransactionList
			}
			return a, nil

		case key.Matches(msg, keys.New):
			if a.mode == modeTransactionList || a.mode == modeDashboard {
				a.mode = modeJournalEntry
				a.statusMsg = ""
				a.journalEntry = newJournalEntry(a.now())
				a.journalEntry.width = a.width
				return a, a.journalEntry.load(a.client)
			}

		case key.Matches(msg, keys.Enter):
			switch a.mode {
			case modeAccountList:
				if id := a.accountList.selectedID(); id != "" {
					a.mode = modeAccountDetail
					return a, a.accountDetail.init(a.client, id)
				}
				return a, nil
			case modeTransactionList:
				if id := a.txnList.selectedID(); id != "" {
					a.mode = modeTransactionDetail
					return a, a.txnDetail.init(a.client, id)
				}
				return a, nil
			}
		}
	}

	return a, a.delegate(msg)
}

func (a *App) delegate(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.mode {
	case modeDashboard:
		a.dashboard, cmd = a.dashboard.update(msg, a.client)
	case modeAccountList:
		a.accountList, cmd = a.accountList.update(msg)
	case modeAccountDetail:
		a.accountDetail, cmd = a.accountDetail.update(msg)
	case modeTransactionList:
		a.txnList, cmd = a.txnList.update(msg)
	case modeTransactionDetail:
		a.txnDetail, cmd = a.txnDetail.update(msg)
	case modePositions:
		a.positions, cmd = a.positions.update(msg)
	}
	return cmd
}

func (a *App) switchTab(step int) tea.Cmd {
	a.tabIndex = (a.tabIndex + step + len(tabModes)) % len(tabModes)
	a.mode = tabModes[a.tabIndex]
	a.statusMsg = ""
	return a.refreshTab()
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeDashboard:
		return a.dashboard.init(a.client)
	case modeAccountList:
		return a.accountList.init(a.client)
	case modeTransactionList:
		return a.txnList.init(a.client)
	case modePositions:
		return a.positions.init(a.client)
	}
	return nil
}

// refreshAll reloads every view a posting can change.
func (a *App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.dashboard.init(a.client),
		a.accountList.init(a.client),
		a.txnList.init(a.client),
	)
}

func (a *App) View() string {
	tabs := make([]string, 0, len(tabModes))
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex && a.mode != modeJournalEntry {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	var content string
	switch a.mode {
	case modeDashboard:
		content = a.dashboard.view()
	case modeAccountList:
		content = a.accountList.view()
	case modeAccountDetail:
		content = a.accountDetail.view()
	case modeTransactionList:
		content = a.txnList.view()
	case modeTransactionDetail:
		content = a.txnDetail.view()
	case modePositions:
		content = a.positions.view()
	case modeJournalEntry:
		content = a.journalEntry.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := subtitleStyle.Render("tab:switch  enter:select  esc:back  n:new txn  d:delete  r:rename  ctrl+r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		content,
		"",
		status,
		helpText,
	)
}
