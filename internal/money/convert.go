package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Converter converts amounts between currencies using a RateProvider.
type Converter struct {
	rates RateProvider
}

// NewConverter creates a Converter. A nil provider falls back to DefaultRates.
func NewConverter(rates RateProvider) *Converter {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Converter{rates: rates}
}

// Convert returns amount expressed in currency to.
// Matching codes are an identity. A code without a rate leaves the amount
// unchanged; callers check Supports before accepting user input.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount
	}

	fromRate, ok := c.rates.UnitsPerBase(from)
	if !ok {
		return amount
	}
	toRate, ok := c.rates.UnitsPerBase(to)
	if !ok {
		return amount
	}

	return amount.Div(fromRate).Mul(toRate)
}

// Supports reports whether code has a configured rate.
func (c *Converter) Supports(code string) bool {
	_, ok := c.rates.UnitsPerBase(code)
	return ok
}
