// Package money converts and formats monetary amounts across the supported
// currencies.
package money

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the unit every rate is quoted against.
const BaseCurrency = "USD"

// RateProvider reports how many units of a currency equal one unit of
// BaseCurrency.
type RateProvider interface {
	UnitsPerBase(code string) (decimal.Decimal, bool)
}

// FixedRates is a static rate table keyed by upper-case ISO code.
type FixedRates map[string]decimal.Decimal

// DefaultRates returns the built-in table: 1 USD = 83 INR.
func DefaultRates() FixedRates {
	return FixedRates{
		"USD": decimal.NewFromInt(1),
		"INR": decimal.NewFromInt(83),
	}
}

// NewFixedRates builds a table from configured float rates.
// Non-positive rates are skipped.
func NewFixedRates(rates map[string]float64) FixedRates {
	out := make(FixedRates, len(rates))
	for code, r := range rates {
		if r <= 0 {
			continue
		}
		out[strings.ToUpper(code)] = decimal.NewFromFloat(r)
	}
	return out
}

func (r FixedRates) UnitsPerBase(code string) (decimal.Decimal, bool) {
	rate, ok := r[strings.ToUpper(code)]
	return rate, ok
}

// Codes returns the supported currency codes in sorted order.
func (r FixedRates) Codes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
