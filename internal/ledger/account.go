package ledger

import (
	"fmt"
	"strings"
	"time"
)

type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeIncome    AccountType = "income"
	TypeExpense   AccountType = "expense"
)

var AllAccountTypes = []AccountType{
	TypeAsset,
	TypeLiability,
	TypeEquity,
	TypeIncome,
	TypeExpense,
}

// Side is the direction of an entry. Values match the stored column.
type Side string

const (
	SideDebit  Side = "dr"
	SideCredit Side = "cr"
)

func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

func (s Side) Opposite() Side {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// Label returns "Debit" or "Credit".
func (s Side) Label() string {
	switch s {
	case SideDebit:
		return "Debit"
	case SideCredit:
		return "Credit"
	default:
		return string(s)
	}
}

// ParseSide accepts dr/cr as well as the long forms.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dr", "debit":
		return SideDebit, nil
	case "cr", "credit":
		return SideCredit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

func (t AccountType) Valid() bool {
	for _, at := range AllAccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// NormalSide returns the side on which the account's balance grows.
// Assets and expenses are debit-normal; liabilities, equity and income are credit-normal.
func (t AccountType) NormalSide() Side {
	switch t {
	case TypeAsset, TypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

func (t AccountType) IsDebitNormal() bool {
	return t.NormalSide() == SideDebit
}

// NetWorthSign is +1 for assets, -1 for liabilities and 0 for everything else.
func (t AccountType) NetWorthSign() int64 {
	switch t {
	case TypeAsset:
		return 1
	case TypeLiability:
		return -1
	default:
		return 0
	}
}

// IsIncomeStatement reports whether the type takes part in income/expense reports.
func (t AccountType) IsIncomeStatement() bool {
	return t == TypeIncome || t == TypeExpense
}

func (t AccountType) Label() string {
	switch t {
	case TypeAsset:
		return "Assets"
	case TypeLiability:
		return "Liabilities"
	case TypeEquity:
		return "Equity"
	case TypeIncome:
		return "Income"
	case TypeExpense:
		return "Expenses"
	default:
		return string(t)
	}
}

type Account struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	Name         string      `json:"name"`
	Type         AccountType `json:"type"`
	NormalSide   Side        `json:"normal_side"`
	Balance      int64       `json:"balance"`
	IsInvestment bool        `json:"is_investment"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewAccount builds an account with its normal side derived from typ and a
// zero balance.
func NewAccount(ownerID, name string, typ AccountType, isInvestment bool) (*Account, error) {
	acct := &Account{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(name),
		Type:         typ,
		NormalSide:   typ.NormalSide(),
		IsInvestment: isInvestment,
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}
	return acct, nil
}

// Validate checks all account invariants.
func (a *Account) Validate() error {
	if a.OwnerID == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	if a.NormalSide != a.Type.NormalSide() {
		return fmt.Errorf("%w: %s accounts are %s-normal", ErrNormalSideMismatch, a.Type, a.Type.NormalSide())
	}
	return nil
}

// NetWorth sums asset balances minus liability balances, skipping
// investment accounts.
func NetWorth(accounts []Account) int64 {
	var total int64
	for _, a := range accounts {
		if a.IsInvestment {
			continue
		}
		total += a.Type.NetWorthSign() * a.Balance
	}
	return total
}
