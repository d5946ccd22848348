// Package numfmt renders numbers the way the DSL and its event log show them:
// en-US thousands grouping with no loss of precision.
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders v with grouping separators and every significant decimal digit,
// so 1000000 becomes "1,000,000" and 1234.5678 becomes "1,234.5678".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Plain(v)
	}
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(fractionDigits(v))))
}

// Cents rounds v to two decimals before formatting it.
func Cents(v float64) string {
	return Format(RoundCents(v))
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Plain renders v without grouping or exponent, e.g. "1000000" or "0.25".
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fractionDigits(v float64) int {
	s := Plain(v)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
