package handler

import (
	"spendwiser/internal/adapter/http/dto"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/response"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler reads and changes the display currency.
type PreferenceHandler struct {
	prefs ports.PreferenceService
}

func NewPreferenceHandler(prefs ports.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// GetDisplayCurrency handles GET /api/v1/preferences/display-currency.
func (h *PreferenceHandler) GetDisplayCurrency(c *gin.Context) {
	code, err := h.prefs.DisplayCurrency(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DisplayCurrencyResponse{Currency: code})
}

// SetDisplayCurrency handles PUT /api/v1/preferences/display-currency.
func (h *PreferenceHandler) SetDisplayCurrency(c *gin.Context) {
	var req dto.DisplayCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	code, err := h.prefs.SetDisplayCurrency(c.Request.Context(), req.Currency)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DisplayCurrencyResponse{Currency: code})
}
