package dto

import (
	"spendwiser/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128" trim:"-"`
	Name     string `json:"name" binding:"required,max=100"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required" trim:"-"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
}

// TransactionRequest is the request body for adding a transaction.
// Amount accepts a JSON number or a numeric string.
type TransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type" binding:"required,tx_type"`
	Category        string          `json:"category" binding:"max=50"`
	Date            string          `json:"date"`
	Description     string          `json:"description" binding:"required,max=200"`
	WalletID        string          `json:"walletId" binding:"required,max=64"`
	Currency        string          `json:"currency" binding:"omitempty,currency_code"`
	ReceiptURL      string          `json:"receiptUrl,omitempty"`
	ReceiptMerchant string          `json:"receiptMerchant,omitempty" binding:"max=100"`
}

// Draft converts the request into a ledger draft.
func (r TransactionRequest) Draft() domain.TransactionDraft {
	return domain.TransactionDraft{
		Amount:          r.Amount,
		Type:            domain.TransactionType(r.Type),
		Category:        r.Category,
		Date:            r.Date,
		Description:     r.Description,
		WalletID:        r.WalletID,
		Currency:        r.Currency,
		ReceiptURL:      r.ReceiptURL,
		ReceiptMerchant: r.ReceiptMerchant,
	}
}

// DisplayCurrencyRequest is the request body for changing the display
// currency.
type DisplayCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

type DisplayCurrencyResponse struct {
	Currency string `json:"currency"`
}

// ReceiptRequest carries a receipt image and the form state it should be
// merged into.
type ReceiptRequest struct {
	Image string                  `json:"image" binding:"required" trim:"-"`
	Draft domain.TransactionDraft `json:"draft"`
}

type LatestInsightResponse struct {
	Text string `json:"text"`
}
