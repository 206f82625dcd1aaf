package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"spendwiser/config"
	"spendwiser/internal/core/domain"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGemini struct {
	mu       sync.Mutex
	paths    []string
	bodies   []string
	status   int
	response string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
		return
	}
	_, _ = io.WriteString(w, f.response)
}

func candidate(text string) string {
	raw, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return string(raw)
}

func newTestProvider(t *testing.T, fake *fakeGemini) *Provider {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p, err := New(context.Background(), config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	}, srv.Client(), zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.GeminiConfig{Model: "m"}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestProvider_AnalyzeReceipt(t *testing.T) {
	fake := &fakeGemini{response: candidate(`{"merchant":"Corner Cafe","amount":42.5,"date":"2024-02-14","category":"Food","currency":"USD"}`)}
	p := newTestProvider(t, fake)

	img := domain.ReceiptImage{MIMEType: "image/png", Data: []byte("hello")}
	got, err := p.AnalyzeReceipt(context.Background(), img)
	require.NoError(t, err)

	require.NotNil(t, got.Merchant)
	assert.Equal(t, "Corner Cafe", *got.Merchant)
	require.NotNil(t, got.Amount)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, "2024-02-14", *got.Date)
	assert.Nil(t, got.Description)

	require.Len(t, fake.paths, 1)
	assert.True(t, strings.HasSuffix(fake.paths[0], "test-model:generateContent"), fake.paths[0])
	assert.Contains(t, fake.bodies[0], "image/png")
	assert.Contains(t, fake.bodies[0], "aGVsbG8=")
	assert.Contains(t, fake.bodies[0], "application/json")
}

func TestProvider_AnalyzeReceipt_Failures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeGemini
	}{
		{"http error", &fakeGemini{status: http.StatusBadRequest}},
		{"empty text", &fakeGemini{response: candidate("  ")}},
		{"not json", &fakeGemini{response: candidate("I cannot read this receipt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.fake)

			_, err := p.AnalyzeReceipt(context.Background(), domain.ReceiptImage{MIMEType: "image/jpeg", Data: []byte{1}})
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, "AI_001"))
		})
	}
}

func TestProvider_SpendingInsights(t *testing.T) {
	fake := &fakeGemini{response: candidate("Food is your biggest expense.")}
	p := newTestProvider(t, fake)

	txns := []domain.Transaction{{
		ID:          "t1",
		Amount:      decimal.NewFromInt(250),
		Type:        domain.TransactionTypeExpense,
		Category:    domain.CategoryFood,
		Date:        "2024-01-05",
		Description: "private note",
		WalletID:    "1",
		Currency:    "INR",
	}}

	text, err := p.SpendingInsights(context.Background(), txns)
	require.NoError(t, err)
	assert.Equal(t, "Food is your biggest expense.", text)

	require.Len(t, fake.bodies, 1)
	assert.Contains(t, fake.bodies[0], "2024-01-05")
	assert.NotContains(t, fake.bodies[0], "private note")
}

func TestProvider_SpendingInsights_Error(t *testing.T) {
	p := newTestProvider(t, &fakeGemini{status: http.StatusBadRequest})

	_, err := p.SpendingInsights(context.Background(), nil)
	assert.True(t, apperror.HasCode(err, "AI_002"))
}

func TestInsightPrompt_CapsSample(t *testing.T) {
	txns := make([]domain.Transaction, 70)
	for i := range txns {
		txns[i] = domain.Transaction{Date: "2024-01-01", Category: "Other", Type: domain.TransactionTypeExpense}
	}

	prompt, err := insightPrompt(txns)
	require.NoError(t, err)
	assert.Equal(t, insightSampleSize, strings.Count(prompt, `"date"`))
	assert.Contains(t, prompt, "max 3 sentences")
}

func TestDisabled(t *testing.T) {
	var d Disabled

	_, err := d.AnalyzeReceipt(context.Background(), domain.ReceiptImage{})
	assert.True(t, apperror.HasCode(err, "AI_001"))
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = d.SpendingInsights(context.Background(), nil)
	assert.True(t, apperror.HasCode(err, "AI_002"))
}
