package cmd

import (
	"testing"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	e, err := parseEntry("dr:acct-1:42.50")
	require.NoError(t, err)
	assert.Equal(t, ledger.Entry{AccountID: "acct-1", Side: ledger.SideDebit, Amount: 4250}, e)

	e, err = parseEntry("credit:acct-2:3000")
	require.NoError(t, err)
	assert.Equal(t, ledger.SideCredit, e.Side)
	assert.Equal(t, int64(300000), e.Amount)

	tests := []struct {
		raw        string
		validation bool
	}{
		{"dr:acct-1", false},
		{"up:acct-1:10", true},
		{"dr:acct-1:ten", true},
		{"dr:acct-1:1.005", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := parseEntry(tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.validation, ledger.IsValidation(err))
		})
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := parsePeriod("2024-03")
	require.NoError(t, err)
	assert.Equal(t, ledger.Period{Year: 2024, Month: time.March}, p)

	p, err = parsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, ledger.CurrentPeriod(time.Now()), p)

	_, err = parsePeriod("March")
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "token", "account", "transaction", "invest", "quote", "report", "tui"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
