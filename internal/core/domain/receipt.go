package domain

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidReceiptImage = errors.New("receipt image is not valid base64 data")

// ReceiptImage is a decoded receipt photo. Source keeps the payload as
// supplied so it can be stored on the transaction.
type ReceiptImage struct {
	MIMEType string
	Data     []byte
	Source   string
}

// ParseReceiptImage accepts a data URL ("data:image/png;base64,...") or a
// bare base64 string, which is assumed to be JPEG.
func ParseReceiptImage(payload string) (ReceiptImage, error) {
	payload = strings.TrimSpace(payload)
	mime, encoded := "image/jpeg", payload

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return ReceiptImage{}, ErrInvalidReceiptImage
		}
		if m := strings.TrimSuffix(meta, ";base64"); m != "" {
			mime = m
		}
		encoded = data
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(data) == 0 {
		return ReceiptImage{}, ErrInvalidReceiptImage
	}

	return ReceiptImage{MIMEType: mime, Data: data, Source: payload}, nil
}

// ReceiptAnalysis holds fields extracted from a receipt. Every field is
// optional.
type ReceiptAnalysis struct {
	Merchant    *string          `json:"merchant,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
}

// ApplyTo merges the analysis into draft, keeping draft values wherever the
// analysis has nothing usable. The result is always an expense.
// supported filters currency codes; nil accepts none.
func (a ReceiptAnalysis) ApplyTo(draft TransactionDraft, supported func(string) bool) TransactionDraft {
	if a.Amount != nil && a.Amount.IsPositive() {
		draft.Amount = *a.Amount
	}
	if v := deref(a.Category); v != "" {
		draft.Category = v
	}

	if v := deref(a.Description); v != "" {
		draft.Description = v
	} else if v := deref(a.Merchant); v != "" {
		draft.Description = v
	}

	if ts, ok := ParseDate(deref(a.Date)); ok {
		draft.Date = ts.Format(DateLayout)
	}

	if v := strings.ToUpper(deref(a.Currency)); v != "" && supported != nil && supported(v) {
		draft.Currency = v
	}

	if v := deref(a.Merchant); v != "" {
		draft.ReceiptMerchant = v
	}

	draft.Type = TransactionTypeExpense
	return draft
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
