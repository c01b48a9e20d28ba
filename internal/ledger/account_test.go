package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalSide(t *testing.T) {
	cases := map[AccountType]Side{
		TypeAsset:     SideDebit,
		TypeExpense:   SideDebit,
		TypeLiability: SideCredit,
		TypeEquity:    SideCredit,
		TypeIncome:    SideCredit,
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.NormalSide(), typ)
	}
}

func TestNewAccount(t *testing.T) {
	acct, err := NewAccount("alice", "  Checking  ", TypeAsset, false)
	require.NoError(t, err)
	assert.Equal(t, "Checking", acct.Name)
	assert.Equal(t, SideDebit, acct.NormalSide)
	assert.Zero(t, acct.Balance)

	_, err = NewAccount("alice", "   ", TypeAsset, false)
	assert.ErrorIs(t, err, ErrEmptyAccountName)
	assert.True(t, IsValidation(err))

	_, err = NewAccount("alice", "Mystery", AccountType("revenue"), false)
	assert.ErrorIs(t, err, ErrInvalidAccountType)

	_, err = NewAccount("", "Checking", TypeAsset, false)
	assert.ErrorIs(t, err, ErrEmptyOwner)
}

func TestAccountValidateNormalSide(t *testing.T) {
	acct := Account{OwnerID: "alice", Name: "Salary", Type: TypeIncome, NormalSide: SideDebit}
	err := acct.Validate()
	assert.ErrorIs(t, err, ErrNormalSideMismatch)
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"dr": SideDebit, "DEBIT": SideDebit, " cr ": SideCredit, "credit": SideCredit} {
		got, err := ParseSide(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSide("left")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestNetWorth(t *testing.T) {
	accounts := []Account{
		{Type: TypeAsset, Balance: 100000},
		{Type: TypeAsset, Balance: 50000, IsInvestment: true},
		{Type: TypeLiability, Balance: 30000},
		{Type: TypeIncome, Balance: 99999},
		{Type: TypeEquity, Balance: 12345},
	}
	assert.Equal(t, int64(70000), NetWorth(accounts))
}
