package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendwiser/internal/adapter/http/dto"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/apperror"
	"spendwiser/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves wallets, transactions and the dashboard. Views
// default to the saved display currency when ?currency= is absent.
type LedgerHandler struct {
	ledger   ports.LedgerService
	prefs    ports.PreferenceService
	exporter ports.TransactionExporter
	now      func() time.Time
}

func NewLedgerHandler(ledger ports.LedgerService, prefs ports.PreferenceService, exporter ports.TransactionExporter) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, prefs: prefs, exporter: exporter, now: time.Now}
}

func (h *LedgerHandler) currency(c *gin.Context) (string, error) {
	if code := strings.TrimSpace(c.Query("currency")); code != "" {
		return strings.ToUpper(code), nil
	}
	return h.prefs.DisplayCurrency(c.Request.Context())
}

// ListWallets handles GET /api/v1/wallets.
func (h *LedgerHandler) ListWallets(c *gin.Context) {
	currency, err := h.currency(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallets, err := h.ledger.WalletView(currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wallets)
}

// ListTransactions handles GET /api/v1/transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	currency, err := h.currency(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, err := h.ledger.TransactionView(ports.TransactionQuery{Currency: currency, Query: c.Query("q")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, txns)
}

// CreateTransaction handles POST /api/v1/transactions.
func (h *LedgerHandler) CreateTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.TrimStruct(&req)

	result, err := h.ledger.AddTransaction(c.Request.Context(), req.Draft())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ExportTransactions handles GET /api/v1/transactions/export. The file
// holds the same rows as ListTransactions.
func (h *LedgerHandler) ExportTransactions(c *gin.Context) {
	currency, err := h.currency(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, err := h.ledger.TransactionView(ports.TransactionQuery{Currency: currency, Query: c.Query("q")})
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(&buf, txns); err != nil {
		response.Error(c, apperror.InternalError(fmt.Errorf("export transactions: %w", err)))
		return
	}

	filename := fmt.Sprintf("transactions-%s.%s", h.now().Format("20060102"), h.exporter.FileExtension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, h.exporter.ContentType(), buf.Bytes())
}

// Dashboard handles GET /api/v1/dashboard.
func (h *LedgerHandler) Dashboard(c *gin.Context) {
	currency, err := h.currency(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.ledger.Dashboard(ports.DashboardQuery{Currency: currency, Query: c.Query("q")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}
