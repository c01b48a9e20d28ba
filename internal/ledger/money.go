package ledger

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	// MinorUnitExponent: ledger amounts and quote prices are stored in cents.
	MinorUnitExponent = 2
	// FixedPointExponent: investment prices and share counts carry four
	// implied decimal digits.
	FixedPointExponent = 4

	DefaultCurrency = "USD"
)

// ToMajor converts minor units to a decimal major-unit value. This is the
// only place integer ledger amounts become fractional.
func ToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// FromFixed converts a 4-digit fixed-point integer to its real value.
func FromFixed(v int64) decimal.Decimal {
	return decimal.New(v, -FixedPointExponent)
}

// ParseAmount converts a decimal string like "10.50" to 1050 minor units.
// More than two fractional digits is an error rather than a silent rounding.
func ParseAmount(s string) (int64, error) {
	return parseScaled(s, MinorUnitExponent)
}

// ParseFixed converts "12.3456" to 123456.
func ParseFixed(s string) (int64, error) {
	return parseScaled(s, FixedPointExponent)
}

func parseScaled(s string, exp int32) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	scaled := d.Shift(exp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, exp)
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q", ErrAmountTooLarge, s)
	}
	return scaled.IntPart(), nil
}

// NormalizeCurrency upper-cases code and checks it is a known 2-decimal
// ISO 4217 currency, matching the cents representation.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	cur := money.GetCurrency(code)
	if cur == nil || cur.Fraction != MinorUnitExponent {
		return "", fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	return code, nil
}

// FormatAmount converts minor units to a display string, e.g. 1050 USD -> "$10.50".
func FormatAmount(minor int64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return ToMajor(minor).StringFixed(MinorUnitExponent) + " " + currency
	}
	return money.New(minor, currency).Display()
}

// FormatPlain renders minor units without a currency symbol: 1050 -> "10.50".
func FormatPlain(minor int64) string {
	return ToMajor(minor).StringFixed(MinorUnitExponent)
}
