package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"spendwiser/internal/core/domain"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// insightSampleSize bounds the prompt regardless of what the caller passes.
const insightSampleSize = 50

var receiptPrompt = fmt.Sprintf(
	"Analyze this receipt. Extract the merchant name, the total amount, the date (YYYY-MM-DD format), "+
		"the currency code, and suggest a category (%s). Also provide a short description.",
	strings.Join(domain.Categories(), ", "),
)

var receiptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"merchant":    {Type: genai.TypeString},
		"date":        {Type: genai.TypeString, Description: "YYYY-MM-DD"},
		"amount":      {Type: genai.TypeNumber},
		"category":    {Type: genai.TypeString, Enum: domain.Categories()},
		"description": {Type: genai.TypeString},
		"currency":    {Type: genai.TypeString, Description: "ISO 4217 code"},
	},
	Required: []string{"merchant", "amount", "category"},
}

type promptTransaction struct {
	Date     string                 `json:"date"`
	Amount   decimal.Decimal        `json:"amount"`
	Currency string                 `json:"currency"`
	Category string                 `json:"category"`
	Type     domain.TransactionType `json:"type"`
}

func insightPrompt(txns []domain.Transaction) (string, error) {
	if len(txns) > insightSampleSize {
		txns = txns[:insightSampleSize]
	}

	simplified := make([]promptTransaction, len(txns))
	for i, t := range txns {
		simplified[i] = promptTransaction{
			Date:     t.Date,
			Amount:   t.Amount,
			Currency: t.Currency,
			Category: t.Category,
			Type:     t.Type,
		}
	}

	raw, err := json.Marshal(simplified)
	if err != nil {
		return "", fmt.Errorf("encode transactions: %w", err)
	}

	return fmt.Sprintf("Here is a JSON list of recent transactions: %s. "+
		"Provide a brief, friendly financial insight summary (max 3 sentences). "+
		"Highlight any spending trends or areas to save. Address the user directly.", raw), nil
}
