// Package gemini implements ports.InsightProvider on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"spendwiser/config"
	"spendwiser/internal/core/domain"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Provider sends receipts and transaction samples to a Gemini model.
type Provider struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// New creates a Provider. BaseURL overrides the API endpoint, which tests
// point at a local server.
func New(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client, log zerolog.Logger) (*Provider, error) {
	if !cfg.Enabled() {
		return nil, errors.New("gemini: api key is not configured")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Provider{client: client, model: cfg.Model, log: log}, nil
}

// AnalyzeReceipt extracts structured fields from a receipt photo.
func (p *Provider) AnalyzeReceipt(ctx context.Context, img domain.ReceiptImage) (*domain.ReceiptAnalysis, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.MIMEType),
			genai.NewPartFromText(receiptPrompt),
		}, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   receiptSchema,
	})
	if err != nil {
		return nil, apperror.ErrAnalysisFailed(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, apperror.ErrAnalysisFailed(errors.New("empty response"))
	}

	var analysis domain.ReceiptAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, apperror.ErrAnalysisFailed(fmt.Errorf("decode analysis: %w", err))
	}

	p.log.Debug().Str("mime", img.MIMEType).Int("bytes", len(img.Data)).Msg("receipt analyzed")
	return &analysis, nil
}

// SpendingInsights asks for a short summary of the given transactions.
// The result may be empty.
func (p *Provider) SpendingInsights(ctx context.Context, txns []domain.Transaction) (string, error) {
	prompt, err := insightPrompt(txns)
	if err != nil {
		return "", apperror.ErrInsightUnavailable(err)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperror.ErrInsightUnavailable(err)
	}

	return resp.Text(), nil
}
