package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// 基準はEUR
var rates = map[string]decimal.Decimal{
	"EUR": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("1.09"),
	"MAD": decimal.RequireFromString("10.95"),
	"XOF": decimal.RequireFromString("655.96"),
}

// 対応していない通貨なら ErrUnknownCurrency
func Check(code string) error {
	if _, ok := rates[strings.ToUpper(code)]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return nil
}

// 対応通貨のコード
func Codes() []string {
	return []string{"EUR", "USD", "MAD", "XOF"}
}

// Convert はEURの金額を code の通貨に換算する。
func Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if err := Check(code); err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(rates[strings.ToUpper(code)]), nil
}

// Format はEURの金額を表示用の文字列にする。
// XOF は整数に丸めて "N FCFA"、MAD は "N.NN DH"。
func Format(amount decimal.Decimal, code string) (string, error) {
	v, err := Convert(amount, code)
	if err != nil {
		return "", err
	}

	switch strings.ToUpper(code) {
	case "XOF":
		return v.Round(0).StringFixed(0) + " FCFA", nil
	case "MAD":
		return v.StringFixed(2) + " DH", nil
	case "USD":
		return "$" + v.StringFixed(2), nil
	default:
		return "€" + v.StringFixed(2), nil
	}
}
