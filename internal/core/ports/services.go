package ports

import (
	"context"
	"io"
	"time"

	"spendwiser/internal/core/domain"

	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles session token operations.
type TokenService interface {
	Generate(userID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed token claims.
type TokenClaims struct {
	UserID string
}

// --- Collaborators ---

// InsightProvider extracts receipt fields and summarizes spending.
type InsightProvider interface {
	AnalyzeReceipt(ctx context.Context, image domain.ReceiptImage) (*domain.ReceiptAnalysis, error)
	SpendingInsights(ctx context.Context, txns []domain.Transaction) (string, error)
}

// TransactionExporter writes transactions as a downloadable document.
type TransactionExporter interface {
	Export(w io.Writer, txns []domain.Transaction) error
	ContentType() string
	FileExtension() string
}

// --- Service Ports (Business Logic) ---

// LedgerService owns wallets and transactions and applies the balance rule.
type LedgerService interface {
	// Load populates the ledger and returns the slots recovered from
	// malformed data.
	Load(ctx context.Context) ([]string, error)
	AddTransaction(ctx context.Context, draft domain.TransactionDraft) (*AddResult, error)
	Wallets() ([]domain.Wallet, error)
	Transactions() ([]domain.Transaction, error)
	WalletView(currency string) ([]domain.Wallet, error)
	TransactionView(q TransactionQuery) ([]domain.Transaction, error)
	Dashboard(q DashboardQuery) (*DashboardView, error)
	Supports(currency string) bool
}

// AddResult describes what AddTransaction did.
type AddResult struct {
	Transaction domain.Transaction `json:"transaction"`
	// Wallet is the wallet after the update; nil when no wallet matched.
	Wallet         *domain.Wallet `json:"wallet,omitempty"`
	BalanceApplied bool           `json:"balanceApplied"`
	Warning        string         `json:"warning,omitempty"`
}

// TransactionQuery selects the transactions tab view.
type TransactionQuery struct {
	Currency string
	Query    string
}

// DashboardQuery selects the dashboard view.
type DashboardQuery struct {
	Currency string
	Query    string
}

// CategoryTotal is one entry of the expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary holds income/expense totals and the expense breakdown.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Categories   []CategoryTotal `json:"categories"`
}

// FormattedSummary holds Summary figures rendered for display.
type FormattedSummary struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

// DashboardView is everything the dashboard renders.
type DashboardView struct {
	Currency     string               `json:"currency"`
	Wallets      []domain.Wallet      `json:"wallets"`
	Transactions []domain.Transaction `json:"transactions"`
	Summary      Summary              `json:"summary"`
	Formatted    FormattedSummary     `json:"formatted"`
	WalletCount  int                  `json:"walletCount"`
}

// PreferenceService manages the display currency.
type PreferenceService interface {
	DisplayCurrency(ctx context.Context) (string, error)
	SetDisplayCurrency(ctx context.Context, code string) (string, error)
}

// SessionDirectory registers and authenticates users and keeps the
// current session.
type SessionDirectory interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
}

// InsightService wraps the InsightProvider with fallbacks and stale
// response suppression.
type InsightService interface {
	SpendingInsights(ctx context.Context) (*InsightResult, error)
	LatestInsight() string
	AutofillReceipt(ctx context.Context, payload string, draft domain.TransactionDraft) (*AutofillResult, error)
}

// InsightResult is the outcome of a spending insights request.
type InsightResult struct {
	Text string `json:"text"`
	// Fallback is set when Text is the neutral message shown on failure.
	Fallback bool `json:"fallback"`
	// Stale is set when a newer request superseded this one.
	Stale bool `json:"stale"`
}

// AutofillResult is the outcome of a receipt analysis.
type AutofillResult struct {
	Draft    domain.TransactionDraft `json:"draft"`
	Analyzed bool                    `json:"analyzed"`
	Message  string                  `json:"message,omitempty"`
	Stale    bool                    `json:"stale"`
}
