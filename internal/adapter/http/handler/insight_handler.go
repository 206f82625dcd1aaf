package handler

import (
	"spendwiser/internal/adapter/http/dto"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/response"

	"github.com/gin-gonic/gin"
)

// InsightHandler exposes spending insights and receipt autofill.
type InsightHandler struct {
	insights ports.InsightService
}

func NewInsightHandler(insights ports.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Generate handles POST /api/v1/insights.
func (h *InsightHandler) Generate(c *gin.Context) {
	result, err := h.insights.SpendingInsights(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Latest handles GET /api/v1/insights/latest.
func (h *InsightHandler) Latest(c *gin.Context) {
	response.OK(c, dto.LatestInsightResponse{Text: h.insights.LatestInsight()})
}

// AnalyzeReceipt handles POST /api/v1/receipts/analyze.
func (h *InsightHandler) AnalyzeReceipt(c *gin.Context) {
	var req dto.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.insights.AutofillReceipt(c.Request.Context(), req.Image, req.Draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
