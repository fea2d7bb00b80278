package handlers

import (
	"net/http"

	"gigmatch/models"
	"gigmatch/services/pricing"
	"gigmatch/utils"

	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	Service pricing.RateService
}

func NewRateHandler(service pricing.RateService) *RateHandler {
	return &RateHandler{Service: service}
}

func (h *RateHandler) QuoteHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	quote, err := h.Service.CalculateRate(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
