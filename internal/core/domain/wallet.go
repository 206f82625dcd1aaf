package domain

import "github.com/shopspring/decimal"

// WalletKind classifies a wallet.
type WalletKind string

const (
	WalletKindCash    WalletKind = "cash"
	WalletKindCard    WalletKind = "card"
	WalletKindSavings WalletKind = "savings"
)

// PlaceholderWalletName names wallets created for dangling references.
const PlaceholderWalletName = "Unassigned"

// Wallet is a named account holding a running balance in one currency.
// Balance is the signed sum of every transaction recorded against it,
// converted to Currency at insertion time.
type Wallet struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     WalletKind      `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Color    string          `json:"color"`
}

// SeedWallets returns the wallets a fresh ledger starts with.
func SeedWallets() []Wallet {
	return []Wallet{
		{ID: "1", Name: "Main Checking", Type: WalletKindCard, Balance: decimal.Zero, Currency: "INR", Color: "#6366f1"},
		{ID: "2", Name: "Cash", Type: WalletKindCash, Balance: decimal.Zero, Currency: "INR", Color: "#10b981"},
		{ID: "3", Name: "Savings", Type: WalletKindSavings, Balance: decimal.Zero, Currency: "INR", Color: "#f59e0b"},
	}
}

// PlaceholderWallet builds the zero-balance wallet that stands in for an
// unknown wallet id.
func PlaceholderWallet(id, currency string) Wallet {
	return Wallet{
		ID:       id,
		Name:     PlaceholderWalletName,
		Type:     WalletKindCash,
		Balance:  decimal.Zero,
		Currency: currency,
		Color:    "#64748b",
	}
}
