package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/portfolio"
)

type positionsLoadedMsg struct {
	summary *portfolio.Summary
	err     error
}

type positionsModel struct {
	summary *portfolio.Summary
	loading bool
	err     error
	width   int
	height  int
}

func (m *positionsModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		s, err := c.InvestmentSummary(context.Background())
		return positionsLoadedMsg{summary: s, err: err}
	}
}

func (m positionsModel) update(msg tea.Msg) (positionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case positionsLoadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.err = msg.err
	}
	return m, nil
}

func (m *positionsModel) view() string {
	if m.loading {
		return "Loading positions..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.summary == nil || len(m.summary.Positions) == 0 {
		return dimStyle.Render("No investments recorded. Add lots with `homeledger invest add`.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Investments"))
	b.WriteString("\n")

	type row struct {
		ticker, shares, avg, price, value, gain, pct string
		sign                                         int
	}
	rows := make([]row, 0, len(m.summary.Positions))
	for _, p := range m.summary.Positions {
		price := p.CurrentPrice.StringFixed(2)
		if !p.HasQuote {
			price = "n/a"
		}
		rows = append(rows, row{
			ticker: p.Ticker + " " + p.Currency,
			shares: p.TotalShares.String(),
			avg:    p.AveragePrice.StringFixed(2),
			price:  price,
			value:  p.MarketValue.StringFixed(2),
			gain:   p.Gain.StringFixed(2),
			pct:    p.GainPercent.StringFixed(2) + "%",
			sign:   p.Gain.Sign(),
		})
	}

	// Column widths
	w := [7]int{len("TICKER"), len("SHARES"), len("AVG"), len("PRICE"), len("VALUE"), len("GAIN"), len("GAIN%")}
	for _, r := range rows {
		for i, s := range []string{r.ticker, r.shares, r.avg, r.price, r.value, r.gain, r.pct} {
			if len(s) > w[i] {
				w[i] = len(s)
			}
		}
	}
	for i := 1; i < len(w); i++ {
		w[i] += 2
	}

	format := func(cols ...string) string {
		return fmt.Sprintf("  %-*s%*s%*s%*s%*s%*s%*s",
			w[0], cols[0], w[1], cols[1], w[2], cols[2], w[3], cols[3],
			w[4], cols[4], w[5], cols[5], w[6], cols[6])
	}

	b.WriteString(headerStyle.Render(format("TICKER", "SHARES", "AVG", "PRICE", "VALUE", "GAIN", "GAIN%")))
	b.WriteString("\n")
	for _, r := range rows {
		line := format(r.ticker, r.shares, r.avg, r.price, r.value, r.gain, r.pct)
		switch {
		case r.sign > 0:
			b.WriteString(gainStyle.Render(line))
		case r.sign < 0:
			b.WriteString(lossStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	total := 0
	for _, n := range w {
		total += n
	}
	b.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", total)))
	for _, tot := range m.summary.Totals {
		b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(tot.Currency)))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Cost"), tot.TotalCost.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Market value"), tot.MarketValue.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Gain"), signed(tot.Gain, 0)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  Positions without a recorded quote are valued at zero.") + "\n")

	return b.String()
}

