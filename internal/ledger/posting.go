package ledger

import "fmt"

// Effect is the signed change an entry on side s for amount makes to an
// account whose normal side is normal: same side adds, opposite side
// subtracts. Every balance change and every income/expense figure goes
// through this rule.
func Effect(normal, s Side, amount int64) int64 {
	if normal == s {
		return amount
	}
	return -amount
}

// ReversalEffect undoes Effect exactly.
func ReversalEffect(normal, s Side, amount int64) int64 {
	return Effect(normal, s, -amount)
}

// Post applies e to acct in memory. The store performs the same update as a
// single SQL statement; this form backs tests and previews.
func Post(acct *Account, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return applyEffect(acct, Effect(acct.NormalSide, e.Side, e.Amount))
}

// Reverse undoes a previous Post of e to acct.
func Reverse(acct *Account, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return applyEffect(acct, ReversalEffect(acct.NormalSide, e.Side, e.Amount))
}

func applyEffect(acct *Account, delta int64) error {
	next, ok := addInt64(acct.Balance, delta)
	if !ok {
		return fmt.Errorf("%w: balance of account %s would overflow", ErrAmountTooLarge, acct.ID)
	}
	acct.Balance = next
	return nil
}
