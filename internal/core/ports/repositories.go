package ports

import (
	"context"
	"time"

	"spendwiser/internal/core/domain"
)

// Slot names. The version suffix changes whenever the stored format does.
const (
	SlotWallets         = "ledger:wallets:v2"
	SlotTransactions    = "ledger:transactions:v2"
	SlotUsers           = "auth:users:v1"
	SlotSession         = "auth:session:v1"
	SlotDisplayCurrency = "prefs:display_currency:v1"
)

// SlotStore is a durable key-value store of named byte slots.
type SlotStore interface {
	// Get returns nil, nil when the slot has never been written.
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
	Delete(ctx context.Context, slot string) error
}

// LedgerSnapshot is the result of loading both ledger collections.
type LedgerSnapshot struct {
	Wallets      []domain.Wallet
	Transactions []domain.Transaction
	// Recovered lists slots whose stored data was malformed and replaced
	// by defaults.
	Recovered []string
}

// LedgerRepository persists the wallet and transaction collections.
// Each save overwrites the whole collection.
type LedgerRepository interface {
	Load(ctx context.Context) (*LedgerSnapshot, error)
	SaveWallets(ctx context.Context, wallets []domain.Wallet) error
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error
}

// CredentialRepository persists the credential directory.
type CredentialRepository interface {
	List(ctx context.Context) ([]domain.Credential, error)
	Save(ctx context.Context, creds []domain.Credential) error
}

// SessionRepository persists the single current-session slot.
type SessionRepository interface {
	// Current returns nil when nobody is logged in.
	Current(ctx context.Context) (*domain.User, error)
	Set(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}

// PreferenceRepository persists the display currency preference.
type PreferenceRepository interface {
	// DisplayCurrency returns "" when no preference was saved.
	DisplayCurrency(ctx context.Context) (string, error)
	SetDisplayCurrency(ctx context.Context, code string) error
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// RateLimitStore counts requests per key inside a window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}
