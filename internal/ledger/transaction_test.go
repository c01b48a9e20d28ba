package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	txn := Transaction{
		OwnerID: "alice",
		Entries: []Entry{
			{AccountID: "checking", Side: SideDebit, Amount: 1000},
			{AccountID: "salary", Side: SideCredit, Amount: 600},
			{AccountID: "bonus", Side: SideCredit, Amount: 400},
		},
	}
	require.NoError(t, txn.Validate())

	debit, credit := txn.Totals()
	assert.Equal(t, int64(1000), debit)
	assert.Equal(t, int64(1000), credit)
}

func TestTransactionValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		txn     Transaction
		wantErr error
	}{
		{"no owner", Transaction{Entries: []Entry{{AccountID: "a", Side: SideDebit, Amount: 1}}}, ErrEmptyOwner},
		{"no entries", Transaction{OwnerID: "alice"}, ErrNoEntries},
		{"unbalanced", Transaction{OwnerID: "alice", Entries: []Entry{
			{AccountID: "a", Side: SideDebit, Amount: 100},
			{AccountID: "b", Side: SideCredit, Amount: 90},
		}}, ErrUnbalancedTransaction},
		{"zero amount", Transaction{OwnerID: "alice", Entries: []Entry{
			{AccountID: "a", Side: SideDebit, Amount: 0},
			{AccountID: "b", Side: SideCredit, Amount: 0},
		}}, ErrNonPositiveAmount},
		{"negative amount", Transaction{OwnerID: "alice", Entries: []Entry{
			{AccountID: "a", Side: SideDebit, Amount: -5},
			{AccountID: "b", Side: SideCredit, Amount: -5},
		}}, ErrNonPositiveAmount},
		{"bad side", Transaction{OwnerID: "alice", Entries: []Entry{
			{AccountID: "a", Side: "left", Amount: 5},
		}}, ErrInvalidSide},
		{"missing account", Transaction{OwnerID: "alice", Entries: []Entry{
			{Side: SideDebit, Amount: 5},
		}}, ErrAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionAmountLimit(t *testing.T) {
	atLimit := Transaction{OwnerID: "alice", Entries: []Entry{
		{AccountID: "a", Side: SideDebit, Amount: MaxAmount},
		{AccountID: "b", Side: SideCredit, Amount: MaxAmount},
	}}
	require.NoError(t, atLimit.Validate())

	overflowing := Transaction{OwnerID: "alice", Entries: []Entry{
		{AccountID: "a", Side: SideDebit, Amount: math.MaxInt64},
		{AccountID: "a", Side: SideDebit, Amount: math.MaxInt64},
		{AccountID: "a", Side: SideDebit, Amount: 3},
		{AccountID: "b", Side: SideCredit, Amount: 1},
	}}
	err := overflowing.Validate()
	require.ErrorIs(t, err, ErrAmountTooLarge)
	assert.True(t, IsValidation(err))
}

func TestCheckedTotalsOverflow(t *testing.T) {
	txn := Transaction{Entries: []Entry{
		{Side: SideDebit, Amount: math.MaxInt64},
		{Side: SideDebit, Amount: math.MaxInt64},
		{Side: SideDebit, Amount: 3},
		{Side: SideCredit, Amount: 1},
	}}
	_, _, err := txn.CheckedTotals()
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	txn.Entries = []Entry{{Side: SideDebit, Amount: math.MaxInt64 - 1}, {Side: SideDebit, Amount: 1}}
	debit, credit, err := txn.CheckedTotals()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), debit)
	assert.Zero(t, credit)
}

func TestUnbalancedMessage(t *testing.T) {
	txn := Transaction{OwnerID: "alice", Entries: []Entry{
		{AccountID: "a", Side: SideDebit, Amount: 100},
		{AccountID: "b", Side: SideCredit, Amount: 90},
	}}
	err := txn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amounts don't add up")
	assert.True(t, IsValidation(err))
}

func TestAccountIDs(t *testing.T) {
	txn := Transaction{Entries: []Entry{
		{AccountID: "b"}, {AccountID: "a"}, {AccountID: "b"},
	}}
	assert.Equal(t, []string{"b", "a"}, txn.AccountIDs())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	today, err := ParseDate("")
	require.NoError(t, err)
	assert.Equal(t, DateOnly(time.Now()), today)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrValidation)
}
