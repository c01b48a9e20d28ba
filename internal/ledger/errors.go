package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of them so
// callers can branch with errors.Is without knowing the concrete value.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
)

var (
	ErrEmptyOwner            = fmt.Errorf("%w: owner id is required", ErrValidation)
	ErrEmptyAccountName      = fmt.Errorf("%w: account name is required", ErrValidation)
	ErrInvalidAccountType    = fmt.Errorf("%w: invalid account type", ErrValidation)
	ErrNormalSideMismatch    = fmt.Errorf("%w: normal side does not match account type", ErrValidation)
	ErrDuplicateAccount      = fmt.Errorf("%w: account name already exists", ErrValidation)
	ErrInvalidSide           = fmt.Errorf("%w: entry side must be dr or cr", ErrValidation)
	ErrNonPositiveAmount     = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrNoEntries             = fmt.Errorf("%w: transaction must have at least one entry", ErrValidation)
	ErrUnbalancedTransaction = fmt.Errorf("%w: amounts don't add up", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrAmountTooLarge        = fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	ErrInvalidCurrency       = fmt.Errorf("%w: invalid or unsupported currency code", ErrValidation)
	ErrInvalidTicker         = fmt.Errorf("%w: ticker must be at least 2 characters", ErrValidation)
	ErrInvalidPeriod         = fmt.Errorf("%w: invalid reporting period", ErrValidation)

	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrInvestmentNotFound  = fmt.Errorf("investment %w", ErrNotFound)
	ErrQuoteNotFound       = fmt.Errorf("stock price %w", ErrNotFound)

	ErrForeignAccount     = fmt.Errorf("%w: account belongs to another owner", ErrUnauthorized)
	ErrForeignTransaction = fmt.Errorf("%w: transaction belongs to another owner", ErrUnauthorized)
	ErrForeignInvestment  = fmt.Errorf("%w: investment belongs to another owner", ErrUnauthorized)
)

func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
