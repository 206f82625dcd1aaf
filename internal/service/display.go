package service

import (
	"spendwiser/internal/core/domain"
	"spendwiser/internal/money"
)

// ConvertTransactions returns copies with amounts expressed in target.
// The input is not modified.
func ConvertTransactions(txns []domain.Transaction, target string, conv *money.Converter) []domain.Transaction {
	out := make([]domain.Transaction, len(txns))
	for i, t := range txns {
		t.Amount = conv.Convert(t.Amount, t.Currency, target)
		t.Currency = target
		out[i] = t
	}
	return out
}

// ConvertWallets returns copies with balances expressed in target.
func ConvertWallets(wallets []domain.Wallet, target string, conv *money.Converter) []domain.Wallet {
	out := make([]domain.Wallet, len(wallets))
	for i, w := range wallets {
		w.Balance = conv.Convert(w.Balance, w.Currency, target)
		w.Currency = target
		out[i] = w
	}
	return out
}
