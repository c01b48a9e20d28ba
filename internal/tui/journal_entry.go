package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
)

type jeStep int

const (
	jeStepDate jeStep = iota
	jeStepDescription
	jeStepEntryAccount
	jeStepEntrySide
	jeStepEntryAmount
	jeStepEntryMore
	jeStepConfirm
)

type journalFormLoadedMsg struct {
	accounts     []ledger.Account
	descriptions []string
	err          error
}

type txnCreatedMsg struct {
	txn *ledger.Transaction
	err error
}

type journalEntryModel struct {
	step        jeStep
	dateInput   textinput.Model
	description textinput.Model
	entries     []ledger.Entry

	// Current entry being built
	accountCursor int
	side          ledger.Side
	amountInput   textinput.Model
	moreCursor    int // 0 = add another, 1 = done

	accounts     []ledger.Account
	descriptions []string

	err       error
	done      bool
	cancelled bool
	statusMsg string
	width     int
}

func newJournalEntry(today time.Time) journalEntryModel {
	dateInput := textinput.New()
	dateInput.Placeholder = ledger.DateLayout
	dateInput.CharLimit = 10
	dateInput.SetValue(today.Format(ledger.DateLayout))
	dateInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "e.g. Groceries"
	descInput.CharLimit = 200
	descInput.ShowSuggestions = true

	amtInput := textinput.New()
	amtInput.Placeholder = "e.g. 42.50"
	amtInput.CharLimit = 20

	return journalEntryModel{
		step:        jeStepDate,
		dateInput:   dateInput,
		description: descInput,
		amountInput: amtInput,
		side:        ledger.SideDebit,
	}
}

func (m *journalEntryModel) load(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		accounts, err := c.ListAccounts(context.Background(), "", nil)
		if err != nil {
			return journalFormLoadedMsg{err: err}
		}
		descs, err := c.TransactionDescriptions(context.Background())
		return journalFormLoadedMsg{accounts: accounts, descriptions: descs, err: err}
	}
}

func (m journalEntryModel) update(msg tea.Msg, c *client.Client) (journalEntryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case journalFormLoadedMsg:
		m.accounts = msg.accounts
		m.descriptions = msg.descriptions
		m.description.SetSuggestions(msg.descriptions)
		m.err = msg.err
		return m, nil

	case txnCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = jeStepConfirm
			return m, nil
		}
		m.done = true
		m.statusMsg = fmt.Sprintf("Transaction %s posted", msg.txn.ID)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Escape) {
			m.cancelled = true
			return m, nil
		}

		switch m.step {
		case jeStepDate:
			return m.updateDate(msg)
		case jeStepDescription:
			return m.updateDescription(msg)
		case jeStepEntryAccount:
			return m.updateEntryAccount(msg)
		case jeStepEntrySide:
			return m.updateEntrySide(msg)
		case jeStepEntryAmount:
			return m.updateEntryAmount(msg)
		case jeStepEntryMore:
			return m.updateEntryMore(msg)
		case jeStepConfirm:
			return m.updateConfirm(msg, c)
		}
	}
	return m, nil
}

func (m journalEntryModel) updateDate(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		if _, err := ledger.ParseDate(m.dateInput.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.step = jeStepDescription
		m.dateInput.Blur()
		m.description.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateDescription(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		m.err = nil
		m.description.Blur()
		if len(m.accounts) == 0 {
			m.err = fmt.Errorf("create an account first")
			return m, nil
		}
		m.step = jeStepEntryAccount
		return m, nil
	}
	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateEntryAccount(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.accountCursor > 0 {
			m.accountCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.accountCursor < len(m.accounts)-1 {
			m.accountCursor++
		}
	case key.Matches(msg, keys.Enter):
		m.err = nil
		m.side = m.accounts[m.accountCursor].NormalSide
		m.step = jeStepEntrySide
	}
	return m, nil
}

func (m journalEntryModel) updateEntrySide(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		m.side = m.side.Opposite()
	case key.Matches(msg, keys.Enter):
		m.err = nil
		m.step = jeStepEntryAmount
		m.amountInput.SetValue(m.suggestedAmount())
		m.amountInput.Focus()
	}
	return m, nil
}

// suggestedAmount pre-fills the amount that would balance the entries so far
// when the chosen side is the one short of it.
func (m *journalEntryModel) suggestedAmount() string {
	debit, credit := m.totals()
	switch {
	case m.side == ledger.SideDebit && credit > debit:
		return ledger.FormatPlain(credit - debit)
	case m.side == ledger.SideCredit && debit > credit:
		return ledger.FormatPlain(debit - credit)
	}
	return ""
}

func (m journalEntryModel) updateEntryAmount(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	if key.Matches(msg, keys.Enter) {
		amount, err := ledger.ParseAmount(m.amountInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		e := ledger.Entry{
			AccountID: m.accounts[m.accountCursor].ID,
			Side:      m.side,
			Amount:    amount,
		}
		if err := e.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.entries = append(m.entries, e)
		m.amountInput.Blur()
		m.err = nil
		m.moreCursor = 0
		if m.isBalanced() {
			m.moreCursor = 1
		}
		m.step = jeStepEntryMore
		return m, nil
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

func (m journalEntryModel) updateEntryMore(msg tea.KeyMsg) (journalEntryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		m.moreCursor = 1 - m.moreCursor
	case key.Matches(msg, keys.Enter):
		if m.moreCursor == 0 {
			m.step = jeStepEntryAccount
			m.err = nil
			return m, nil
		}
		if !m.isBalanced() {
			m.err = ledger.ErrUnbalancedTransaction
			m.moreCursor = 0
			return m, nil
		}
		m.err = nil
		m.step = jeStepConfirm
	}
	return m, nil
}

func (m journalEntryModel) updateConfirm(msg tea.KeyMsg, c *client.Client) (journalEntryModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		in := m.input()
		return m, func() tea.Msg {
			created, err := c.CreateTransaction(context.Background(), in)
			return txnCreatedMsg{txn: created, err: err}
		}
	case "n", "N":
		m.cancelled = true
	}
	return m, nil
}

func (m *journalEntryModel) input() client.TransactionInput {
	return client.TransactionInput{
		Date:        m.dateInput.Value(),
		Description: strings.TrimSpace(m.description.Value()),
		Entries:     append([]ledger.Entry(nil), m.entries...),
	}
}

func (m *journalEntryModel) totals() (debit, credit int64) {
	t := ledger.Transaction{Entries: m.entries}
	return t.Totals()
}

func (m *journalEntryModel) isBalanced() bool {
	debit, credit := m.totals()
	return len(m.entries) > 0 && debit == credit
}

func (m *journalEntryModel) accountName(id string) string {
	for _, a := range m.accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

func (m *journalEntryModel) balanceSummary() string {
	debit, credit := m.totals()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  Debits:  %s\n", ledger.FormatPlain(debit)))
	b.WriteString(fmt.Sprintf("  Credits: %s\n", ledger.FormatPlain(credit)))

	switch {
	case debit == credit:
		b.WriteString(successStyle.Render("  BALANCED"))
	case debit > credit:
		b.WriteString(errorStyle.Render("  UNBALANCED: over-debited by " + ledger.FormatPlain(debit-credit)))
	default:
		b.WriteString(errorStyle.Render("  UNBALANCED: over-credited by " + ledger.FormatPlain(credit-debit)))
	}
	return b.String()
}

func (m *journalEntryModel) entryLines(indent string) string {
	var b strings.Builder
	for _, e := range m.entries {
		style := debitStyle
		if e.Side == ledger.SideCredit {
			style = creditStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-4s %-30s %12s", indent,
			strings.ToUpper(string(e.Side)), clip(m.accountName(e.AccountID), 30), ledger.FormatPlain(e.Amount))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *journalEntryModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New Transaction"))
	b.WriteString("\n\n")

	if len(m.entries) > 0 && m.step != jeStepConfirm {
		b.WriteString(dimStyle.Render("  Entries so far:") + "\n")
		b.WriteString(m.entryLines("    "))
		b.WriteString("\n")
		b.WriteString(m.balanceSummary())
		b.WriteString("\n\n")
	}

	switch m.step {
	case jeStepDate:
		b.WriteString("  Transaction date:\n\n")
		b.WriteString("  " + m.dateInput.View() + "\n")

	case jeStepDescription:
		b.WriteString("  Description (optional, tab completes a previous one):\n\n")
		b.WriteString("  " + m.description.View() + "\n")

	case jeStepEntryAccount:
		b.WriteString(fmt.Sprintf("  Entry #%d: select account\n\n", len(m.entries)+1))
		for i, a := range m.accounts {
			label := fmt.Sprintf("%-30s %s", clip(a.Name, 30), a.Type)
			if i == m.accountCursor {
				b.WriteString(selectedStyle.Render("  > "+label) + "\n")
			} else {
				b.WriteString("    " + label + "\n")
			}
		}

	case jeStepEntrySide:
		b.WriteString(fmt.Sprintf("  Account: %s\n", m.accounts[m.accountCursor].Name))
		b.WriteString("  Select side:\n\n")
		for _, s := range []ledger.Side{ledger.SideDebit, ledger.SideCredit} {
			label := fmt.Sprintf("%s (%s)", s.Label(), strings.ToUpper(string(s)))
			if s == m.side {
				b.WriteString(selectedStyle.Render("  > "+label) + "\n")
			} else {
				b.WriteString("    " + label + "\n")
			}
		}

	case jeStepEntryAmount:
		b.WriteString(fmt.Sprintf("  Account: %s | Side: %s\n", m.accounts[m.accountCursor].Name, m.side.Label()))
		b.WriteString("  Amount:\n\n")
		b.WriteString("  " + m.amountInput.View() + "\n")

	case jeStepEntryMore:
		options := []string{"Add another entry", "Done, review and post"}
		if !m.isBalanced() {
			options[1] = "Done (entries must balance first)"
		}
		b.WriteString("  What next?\n\n")
		for i, opt := range options {
			if i == m.moreCursor {
				b.WriteString(selectedStyle.Render("  > "+opt) + "\n")
			} else {
				b.WriteString(fmt.Sprintf("    %s\n", opt))
			}
		}

	case jeStepConfirm:
		b.WriteString("  Review transaction:\n\n")

		var summary strings.Builder
		summary.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), m.dateInput.Value()))
		summary.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Description:"), m.description.Value()))
		summary.WriteString(m.entryLines(""))

		b.WriteString(boxStyle.Render(strings.TrimRight(summary.String(), "\n")))
		b.WriteString("\n\n")
		b.WriteString("  Post this transaction? (y/n)\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  Error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("  ESC to cancel"))
	return b.String()
}
