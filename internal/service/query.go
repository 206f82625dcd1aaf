package service

import (
	"sort"
	"strings"

	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Aggregate totals income and expense in each transaction's own currency.
// Convert the input first for a single-currency summary.
func Aggregate(txns []domain.Transaction) ports.Summary {
	income, expense := decimal.Zero, decimal.Zero
	byCategory := make(map[string]decimal.Decimal)

	for _, t := range txns {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}

	categories := make([]ports.CategoryTotal, 0, len(byCategory))
	for name, amount := range byCategory {
		categories = append(categories, ports.CategoryTotal{Category: name, Amount: amount})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	return ports.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		Categories:   categories,
	}
}

// SearchOptions tunes Search.
type SearchOptions struct {
	// IncludeCategory also matches the query against the category.
	IncludeCategory bool
}

// Search returns the transactions whose description contains query,
// ignoring case, newest first. Equal dates keep their input order. The
// query is matched as typed, surrounding spaces included.
func Search(txns []domain.Transaction, query string, opts SearchOptions) []domain.Transaction {
	q := strings.ToLower(query)

	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			(opts.IncludeCategory && strings.Contains(strings.ToLower(t.Category), q)) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().After(out[j].Time())
	})
	return out
}
