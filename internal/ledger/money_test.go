package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"+0.01", 1},
		{" 1234.56 ", 123456},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAmount("10.001")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseAmount("ten")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	for _, in := range []string{"184467440737095516.17", "92233720368547758.08", "-92233720368547758.09"} {
		_, err = ParseAmount(in)
		assert.ErrorIs(t, err, ErrAmountTooLarge, in)
	}
	got, err := ParseAmount("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestParseFixed(t *testing.T) {
	got, err := ParseFixed("12.3456")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)

	_, err = ParseFixed("1.00001")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseFixed("1844674407370955.1617")
	assert.ErrorIs(t, err, ErrAmountTooLarge)
	assert.True(t, IsValidation(err))
}

func TestToMajor(t *testing.T) {
	assert.Equal(t, "50.25", ToMajor(5025).StringFixed(2))
	assert.Equal(t, "-0.07", ToMajor(-7).StringFixed(2))
	assert.Equal(t, "10.5", FromFixed(105000).String())
}

func TestNormalizeCurrency(t *testing.T) {
	got, err := NormalizeCurrency("eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", got)

	got, err = NormalizeCurrency("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, got)

	_, err = NormalizeCurrency("JPY")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	_, err = NormalizeCurrency("XXZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$10.50", FormatAmount(1050, "USD"))
	assert.Equal(t, "10.50", FormatPlain(1050))
}
