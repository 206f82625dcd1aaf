package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of money movement.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Known categories. Free-form categories are accepted as well.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryHousing       = "Housing"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryHealth        = "Health"
	CategorySalary        = "Salary"
	CategoryInvestment    = "Investment"
	CategoryOther         = "Other"
)

// Categories lists the known categories in display order.
func Categories() []string {
	return []string{
		CategoryFood, CategoryTransport, CategoryHousing, CategoryEntertainment,
		CategoryShopping, CategoryHealth, CategorySalary, CategoryInvestment, CategoryOther,
	}
}

// DateLayout is the date-only form used for new transactions.
const DateLayout = "2006-01-02"

// Transaction is an immutable record of money movement against one wallet.
// Amount is always a positive magnitude; Type carries the sign.
type Transaction struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	WalletID        string          `json:"walletId"`
	Currency        string          `json:"currency"`
	ReceiptURL      string          `json:"receiptUrl,omitempty"`
	ReceiptMerchant string          `json:"receiptMerchant,omitempty"`
}

// SignedAmount returns the amount with income positive and expense negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Time parses Date. Unparseable dates yield the zero time.
func (t Transaction) Time() time.Time {
	ts, _ := ParseDate(t.Date)
	return ts
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseDate accepts ISO-8601 date-only and full timestamp forms.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// TransactionDraft is the caller-supplied input for a new transaction.
type TransactionDraft struct {
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	WalletID        string          `json:"walletId"`
	Currency        string          `json:"currency"`
	ReceiptURL      string          `json:"receiptUrl,omitempty"`
	ReceiptMerchant string          `json:"receiptMerchant,omitempty"`
}

// Record builds the immutable transaction for this draft.
func (d TransactionDraft) Record(id string) Transaction {
	return Transaction{
		ID:              id,
		Amount:          d.Amount,
		Type:            d.Type,
		Category:        d.Category,
		Date:            d.Date,
		Description:     d.Description,
		WalletID:        d.WalletID,
		Currency:        d.Currency,
		ReceiptURL:      d.ReceiptURL,
		ReceiptMerchant: d.ReceiptMerchant,
	}
}
