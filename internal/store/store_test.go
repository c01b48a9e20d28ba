package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "homeledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAccount(t *testing.T, s *Store, owner, name string, typ ledger.AccountType) *ledger.Account {
	t.Helper()
	acct, err := ledger.NewAccount(owner, name, typ, false)
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(context.Background(), acct))
	return acct
}

func mustPost(t *testing.T, s *Store, owner string, date time.Time, desc string, entries ...ledger.Entry) *ledger.Transaction {
	t.Helper()
	txn := &ledger.Transaction{OwnerID: owner, Date: date, Description: desc, Entries: entries}
	require.NoError(t, s.CreateTransaction(context.Background(), txn))
	return txn
}

func dr(acct *ledger.Account, amount int64) ledger.Entry {
	return ledger.Entry{AccountID: acct.ID, Side: ledger.SideDebit, Amount: amount}
}

func cr(acct *ledger.Account, amount int64) ledger.Entry {
	return ledger.Entry{AccountID: acct.ID, Side: ledger.SideCredit, Amount: amount}
}

func balanceOf(t *testing.T, s *Store, acct *ledger.Account) int64 {
	t.Helper()
	got, err := s.GetAccount(context.Background(), acct.OwnerID, acct.ID)
	require.NoError(t, err)
	return got.Balance
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
