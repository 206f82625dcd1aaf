package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Precision selects how many fraction digits Format renders.
type Precision int

const (
	// Whole rounds to whole units, for summary figures.
	Whole Precision = iota
	// Cents keeps the currency's minor unit, for itemized amounts.
	Cents
)

// Format renders amount with the currency symbol and locale grouping.
// INR uses Indian lakh grouping (₹1,23,457); other currencies group by
// thousands. Rounding is half away from zero.
func Format(amount decimal.Decimal, currency string, p Precision) string {
	code := strings.ToUpper(currency)

	symbol, template := code+" ", "$1"
	decimalSep, thousandSep := ".", ","
	fraction := 2

	if cur := gomoney.GetCurrency(code); cur != nil {
		symbol, template = cur.Grapheme, cur.Template
		decimalSep, thousandSep = cur.Decimal, cur.Thousand
		fraction = cur.Fraction
	}

	digits := int32(0)
	if p == Cents {
		digits = int32(fraction)
	}

	rounded := amount.Abs().Round(digits)
	intPart, fracPart, _ := strings.Cut(rounded.StringFixed(digits), ".")

	number := group(intPart, thousandSep, code == "INR")
	if fracPart != "" {
		number += decimalSep + fracPart
	}

	out := strings.Replace(template, "1", number, 1)
	out = strings.Replace(out, "$", symbol, 1)

	if amount.Round(digits).IsNegative() {
		return "-" + out
	}
	return out
}

// group inserts separators into a run of digits. Lakh grouping keeps the
// last three digits together and pairs the rest.
func group(digits, sep string, lakh bool) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	size := 3
	if lakh {
		size = 2
	}

	var parts []string
	for len(head) > size {
		parts = append([]string{head[len(head)-size:]}, parts...)
		head = head[:len(head)-size]
	}
	parts = append([]string{head}, parts...)

	return strings.Join(parts, sep) + sep + tail
}
