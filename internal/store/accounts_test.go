package store

import (
	"context"
	"testing"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)
	assert.NotEmpty(t, acct.ID)

	got, err := s.GetAccount(ctx, "alice", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, ledger.TypeAsset, got.Type)
	assert.Equal(t, ledger.SideDebit, got.NormalSide)
	assert.Zero(t, got.Balance)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateAccountValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateAccount(ctx, &ledger.Account{OwnerID: "alice", Name: "  ", Type: ledger.TypeAsset})
	assert.ErrorIs(t, err, ledger.ErrEmptyAccountName)

	err = s.CreateAccount(ctx, &ledger.Account{OwnerID: "alice", Name: "X", Type: "revenue"})
	assert.ErrorIs(t, err, ledger.ErrInvalidAccountType)

	err = s.CreateAccount(ctx, &ledger.Account{OwnerID: "alice", Name: "X", Type: ledger.TypeIncome, NormalSide: ledger.SideDebit})
	assert.ErrorIs(t, err, ledger.ErrNormalSideMismatch)
}

func TestDuplicateAccountName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)

	dup, _ := ledger.NewAccount("alice", "Checking", ledger.TypeExpense, false)
	err := s.CreateAccount(ctx, dup)
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)
	assert.True(t, ledger.IsValidation(err))

	// Names are unique per owner only.
	mustAccount(t, s, "bob", "Checking", ledger.TypeAsset)
}

func TestAccountOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)

	_, err := s.GetAccount(ctx, "bob", acct.ID)
	assert.ErrorIs(t, err, ledger.ErrForeignAccount)
	assert.True(t, ledger.IsUnauthorized(err))

	_, err = s.GetAccount(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	assert.True(t, ledger.IsNotFound(err))
}

func TestListAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustAccount(t, s, "alice", "Groceries", ledger.TypeExpense)
	mustAccount(t, s, "alice", "Savings", ledger.TypeAsset)
	mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)
	mustAccount(t, s, "alice", "Salary", ledger.TypeIncome)
	mustAccount(t, s, "bob", "Other", ledger.TypeAsset)
	brokerage, _ := ledger.NewAccount("alice", "Brokerage", ledger.TypeAsset, true)
	require.NoError(t, s.CreateAccount(ctx, brokerage))

	all, err := s.ListAccounts(ctx, AccountFilter{OwnerID: "alice"})
	require.NoError(t, err)
	var names []string
	for _, a := range all {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Brokerage", "Checking", "Savings", "Salary", "Groceries"}, names)

	assets, err := s.ListAccounts(ctx, AccountFilter{OwnerID: "alice", Type: ledger.TypeAsset})
	require.NoError(t, err)
	assert.Len(t, assets, 3)

	yes := true
	inv, err := s.ListAccounts(ctx, AccountFilter{OwnerID: "alice", IsInvestment: &yes})
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "Brokerage", inv[0].Name)

	page, err := s.ListAccounts(ctx, AccountFilter{OwnerID: "alice", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, "Checking", page[0].Name)
}

func TestRenameAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)
	mustAccount(t, s, "alice", "Savings", ledger.TypeAsset)

	renamed, err := s.RenameAccount(ctx, "alice", acct.ID, " Current ")
	require.NoError(t, err)
	assert.Equal(t, "Current", renamed.Name)

	_, err = s.RenameAccount(ctx, "alice", acct.ID, "Savings")
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)

	_, err = s.RenameAccount(ctx, "bob", acct.ID, "Mine")
	assert.ErrorIs(t, err, ledger.ErrForeignAccount)

	_, err = s.RenameAccount(ctx, "alice", acct.ID, "")
	assert.ErrorIs(t, err, ledger.ErrEmptyAccountName)

	got, err := s.GetAccount(ctx, "alice", acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Current", got.Name)
}

func TestAccountTypeIsFixed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)
	_, err := s.writer.ExecContext(ctx, `UPDATE accounts SET type = 'liability', normal_side = 'cr' WHERE id = ?`, acct.ID)
	assert.Error(t, err)
}

func TestListAccountEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	checking := mustAccount(t, s, "alice", "Checking", ledger.TypeAsset)
	salary := mustAccount(t, s, "alice", "Salary", ledger.TypeIncome)
	food := mustAccount(t, s, "alice", "Food", ledger.TypeExpense)

	mustPost(t, s, "alice", day(2024, 3, 1), "Pay", dr(checking, 500000), cr(salary, 500000))
	mustPost(t, s, "alice", day(2024, 3, 5), "Lunch", dr(food, 1500), cr(checking, 1500))

	entries, err := s.ListAccountEntries(ctx, "alice", checking.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Lunch", entries[0].Description)
	assert.Equal(t, ledger.SideCredit, entries[0].Side)
	assert.Equal(t, "Pay", entries[1].Description)

	_, err = s.ListAccountEntries(ctx, "bob", checking.ID, 0)
	assert.ErrorIs(t, err, ledger.ErrForeignAccount)
}
