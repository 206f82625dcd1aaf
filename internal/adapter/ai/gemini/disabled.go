package gemini

import (
	"context"
	"errors"

	"spendwiser/internal/core/domain"
	"spendwiser/pkg/apperror"
)

var ErrDisabled = errors.New("gemini: provider is disabled")

// Disabled is used when no API key is configured. Every call fails, which
// the insight service turns into its fallback messages.
type Disabled struct{}

func (Disabled) AnalyzeReceipt(context.Context, domain.ReceiptImage) (*domain.ReceiptAnalysis, error) {
	return nil, apperror.ErrAnalysisFailed(ErrDisabled)
}

func (Disabled) SpendingInsights(context.Context, []domain.Transaction) (string, error) {
	return "", apperror.ErrInsightUnavailable(ErrDisabled)
}
