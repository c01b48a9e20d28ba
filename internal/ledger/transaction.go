package ledger

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is how transaction and investment dates are stored and parsed.
const DateLayout = "2006-01-02"

// MaxAmount caps a single entry at ten trillion major units.
const MaxAmount int64 = 1_000_000_000_000_000

type Entry struct {
	ID            int64  `json:"id,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	AccountID     string `json:"account_id"`
	Side          Side   `json:"side"`
	Amount        int64  `json:"amount"`
}

// Validate checks a single leg: known side, amount in (0, MaxAmount].
func (e Entry) Validate() error {
	if !e.Side.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, e.Side)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveAmount, e.Amount)
	}
	if e.Amount > MaxAmount {
		return fmt.Errorf("%w: %d exceeds %d", ErrAmountTooLarge, e.Amount, MaxAmount)
	}
	return nil
}

type Transaction struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Entries     []Entry   `json:"entries"`
	CreatedAt   time.Time `json:"created_at"`
}

// Totals returns the debit and credit sums of the entries. Use CheckedTotals
// when the entries have not been validated.
func (t *Transaction) Totals() (debit, credit int64) {
	debit, credit, _ = t.CheckedTotals()
	return debit, credit
}

// CheckedTotals is Totals with overflow detection. On overflow the sums
// returned are those accumulated before the failing entry.
func (t *Transaction) CheckedTotals() (debit, credit int64, err error) {
	for i, e := range t.Entries {
		var sum *int64
		switch e.Side {
		case SideDebit:
			sum = &debit
		case SideCredit:
			sum = &credit
		default:
			continue
		}
		next, ok := addInt64(*sum, e.Amount)
		if !ok {
			return debit, credit, fmt.Errorf("%w: %s total overflows at entry %d", ErrAmountTooLarge, e.Side, i)
		}
		*sum = next
	}
	return debit, credit, nil
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// AccountIDs returns the distinct accounts touched, in entry order.
func (t *Transaction) AccountIDs() []string {
	seen := make(map[string]bool, len(t.Entries))
	var ids []string
	for _, e := range t.Entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true
			ids = append(ids, e.AccountID)
		}
	}
	return ids
}

// Validate checks transaction invariants: an owner, at least one entry,
// valid legs and debits equal to credits.
func (t *Transaction) Validate() error {
	if t.OwnerID == "" {
		return ErrEmptyOwner
	}
	if len(t.Entries) == 0 {
		return ErrNoEntries
	}
	for i, e := range t.Entries {
		if e.AccountID == "" {
			return fmt.Errorf("entry %d: %w", i, ErrAccountNotFound)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	debit, credit, err := t.CheckedTotals()
	if err != nil {
		return err
	}
	if debit != credit {
		return fmt.Errorf("%w: debits %d, credits %d", ErrUnbalancedTransaction, debit, credit)
	}
	return nil
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD. An empty string means today.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return DateOnly(time.Now()), nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return d, nil
}

// AccountEntry is an entry as seen from its account, with the owning
// transaction's date and description.
type AccountEntry struct {
	Entry
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}
