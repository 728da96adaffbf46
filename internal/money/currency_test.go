package money_test

import (
	"testing"

	"evimeria/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	amount := decimal.RequireFromString("49.90")

	cases := map[string]string{
		"EUR": "€49.90",
		"eur": "€49.90",
		"USD": "$54.39",
		"MAD": "546.41 DH",
		"XOF": "32732 FCFA",
	}
	for code, want := range cases {
		got, err := money.Format(amount, code)
		require.NoError(t, err, code)
		assert.Equal(t, want, got, code)
	}
}

func TestFormat_Zero(t *testing.T) {
	got, err := money.Format(decimal.Zero, "XOF")
	require.NoError(t, err)
	assert.Equal(t, "0 FCFA", got)
}

func TestFormat_UnknownCurrency(t *testing.T) {
	_, err := money.Format(decimal.NewFromInt(1), "GBP")
	assert.ErrorIs(t, err, money.ErrUnknownCurrency)
	assert.ErrorIs(t, money.Check("JPY"), money.ErrUnknownCurrency)
	assert.NoError(t, money.Check("mad"))
}
