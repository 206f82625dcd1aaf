package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
)

// Messages shown in place of collaborator output.
const (
	InsightFallbackMessage = "Failed to generate insights. Check your connection or try again later."
	NoInsightsMessage      = "No insights available."
	ReceiptFallbackMessage = "Could not analyze receipt automatically. Please enter details manually."
)

// InsightSampleSize caps how many recent transactions are sent for insights.
const InsightSampleSize = 50

// RequestGate hands out increasing tokens so that only the response to the
// most recent request is applied.
type RequestGate struct {
	latest atomic.Uint64
}

// Begin starts a request and returns its token.
func (g *RequestGate) Begin() uint64 {
	return g.latest.Add(1)
}

// IsLatest reports whether no request started after token.
func (g *RequestGate) IsLatest(token uint64) bool {
	return g.latest.Load() == token
}

// InsightServiceImpl implements ports.InsightService.
type InsightServiceImpl struct {
	ledger   ports.LedgerService
	provider ports.InsightProvider
	timeout  time.Duration
	log      zerolog.Logger

	insightGate RequestGate
	receiptGate RequestGate

	// mu guards latest and applied, the token that produced latest.
	mu      sync.Mutex
	latest  string
	applied uint64
}

// NewInsightService creates a new InsightServiceImpl. A zero timeout leaves
// the caller's deadline in charge.
func NewInsightService(ledger ports.LedgerService, provider ports.InsightProvider, timeout time.Duration, log zerolog.Logger) *InsightServiceImpl {
	return &InsightServiceImpl{
		ledger:   ledger,
		provider: provider,
		timeout:  timeout,
		log:      log,
	}
}

func (s *InsightServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// SpendingInsights summarizes the most recent transactions. Provider
// failures become InsightFallbackMessage rather than errors.
func (s *InsightServiceImpl) SpendingInsights(ctx context.Context) (*ports.InsightResult, error) {
	txns, err := s.ledger.Transactions()
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, apperror.ErrNoTransactions()
	}
	if len(txns) > InsightSampleSize {
		txns = txns[:InsightSampleSize]
	}

	token := s.insightGate.Begin()

	callCtx, cancel := s.withTimeout(ctx)
	text, err := s.provider.SpendingInsights(callCtx, txns)
	cancel()

	res := &ports.InsightResult{}
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("insight provider failed")
		res.Text = InsightFallbackMessage
		res.Fallback = true
	case strings.TrimSpace(text) == "":
		res.Text = NoInsightsMessage
	default:
		res.Text = strings.TrimSpace(text)
	}

	if !s.applyInsight(token, res.Text) {
		s.log.Debug().Uint64("token", token).Msg("discarding superseded insight response")
		res.Stale = true
	}
	return res, nil
}

// applyInsight stores text as the latest insight unless a newer request
// has started or already been applied.
func (s *InsightServiceImpl) applyInsight(token uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token <= s.applied || !s.insightGate.IsLatest(token) {
		return false
	}
	s.latest = text
	s.applied = token
	return true
}

// LatestInsight returns the last applied insight text.
func (s *InsightServiceImpl) LatestInsight() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// AutofillReceipt analyzes a receipt image and merges the result into
// draft. On provider failure the draft comes back unchanged apart from the
// attached image, with ReceiptFallbackMessage.
func (s *InsightServiceImpl) AutofillReceipt(ctx context.Context, payload string, draft domain.TransactionDraft) (*ports.AutofillResult, error) {
	img, err := domain.ParseReceiptImage(payload)
	if err != nil {
		return nil, apperror.Validation("image must be a base64 data URL")
	}

	token := s.receiptGate.Begin()

	callCtx, cancel := s.withTimeout(ctx)
	analysis, err := s.provider.AnalyzeReceipt(callCtx, img)
	cancel()

	if !s.receiptGate.IsLatest(token) {
		s.log.Debug().Uint64("token", token).Msg("discarding superseded receipt analysis")
		return &ports.AutofillResult{Draft: draft, Stale: true}, nil
	}

	res := &ports.AutofillResult{Draft: draft}
	res.Draft.ReceiptURL = img.Source

	if err != nil || analysis == nil {
		s.log.Warn().Err(err).Msg("receipt analysis failed")
		res.Message = ReceiptFallbackMessage
		return res, nil
	}

	res.Draft = analysis.ApplyTo(res.Draft, s.ledger.Supports)
	res.Analyzed = true
	return res, nil
}
