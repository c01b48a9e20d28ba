package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffect(t *testing.T) {
	assert.Equal(t, int64(500), Effect(SideDebit, SideDebit, 500))
	assert.Equal(t, int64(-500), Effect(SideDebit, SideCredit, 500))
	assert.Equal(t, int64(500), Effect(SideCredit, SideCredit, 500))
	assert.Equal(t, int64(-500), Effect(SideCredit, SideDebit, 500))
}

func TestPostAndReverseRoundTrip(t *testing.T) {
	for _, typ := range AllAccountTypes {
		for _, side := range []Side{SideDebit, SideCredit} {
			acct, err := NewAccount("alice", "a", typ, false)
			require.NoError(t, err)
			acct.Balance = 1234
			e := Entry{AccountID: "a", Side: side, Amount: 777}

			require.NoError(t, Post(acct, e))
			assert.NotEqual(t, int64(1234), acct.Balance)
			require.NoError(t, Reverse(acct, e))
			assert.Equal(t, int64(1234), acct.Balance, "%s %s", typ, side)
		}
	}
}

func TestPostRejectsBadEntry(t *testing.T) {
	acct, err := NewAccount("alice", "Cash", TypeAsset, false)
	require.NoError(t, err)

	err = Post(acct, Entry{AccountID: "a", Side: SideDebit, Amount: 0})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
	err = Post(acct, Entry{AccountID: "a", Side: "x", Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidSide)
	assert.Zero(t, acct.Balance)
}

func TestPostRejectsBalanceOverflow(t *testing.T) {
	acct, err := NewAccount("alice", "Cash", TypeAsset, false)
	require.NoError(t, err)
	acct.Balance = math.MaxInt64 - 10

	err = Post(acct, Entry{AccountID: acct.ID, Side: SideDebit, Amount: 100})
	assert.ErrorIs(t, err, ErrAmountTooLarge)
	assert.Equal(t, int64(math.MaxInt64-10), acct.Balance)

	require.NoError(t, Post(acct, Entry{AccountID: acct.ID, Side: SideCredit, Amount: 100}))
	assert.Equal(t, int64(math.MaxInt64-110), acct.Balance)

	err = Post(acct, Entry{AccountID: acct.ID, Side: SideDebit, Amount: MaxAmount + 1})
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}

// Salary 5000.00 into checking, then 120.00 of groceries on a credit card.
func TestPostingScenarios(t *testing.T) {
	checking, _ := NewAccount("alice", "Checking", TypeAsset, false)
	salary, _ := NewAccount("alice", "Salary", TypeIncome, false)
	card, _ := NewAccount("alice", "Card", TypeLiability, false)
	groceries, _ := NewAccount("alice", "Groceries", TypeExpense, false)

	require.NoError(t, Post(checking, Entry{Side: SideDebit, Amount: 500000}))
	require.NoError(t, Post(salary, Entry{Side: SideCredit, Amount: 500000}))
	assert.Equal(t, int64(500000), checking.Balance)
	assert.Equal(t, int64(500000), salary.Balance)

	require.NoError(t, Post(groceries, Entry{Side: SideDebit, Amount: 12000}))
	require.NoError(t, Post(card, Entry{Side: SideCredit, Amount: 12000}))
	assert.Equal(t, int64(12000), groceries.Balance)
	assert.Equal(t, int64(12000), card.Balance)

	assert.Equal(t, int64(488000), NetWorth([]Account{*checking, *salary, *card, *groceries}))
}
