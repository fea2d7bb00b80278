package handlers

import (
	"net/http"

	"gigmatch/models"
	"gigmatch/services/matching"
	"gigmatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MatchingHandler struct {
	Service matching.MatchService
}

func NewMatchingHandler(service matching.MatchService) *MatchingHandler {
	return &MatchingHandler{Service: service}
}

func (h *MatchingHandler) SearchHandler(c *gin.Context) {
	logger := getLogger(c)

	var criteria models.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.Service.SearchAvailableMusicians(c.Request.Context(), criteria)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	logger.Info("Musician search completed",
		zap.String("eventType", criteria.EventType),
		zap.String("instrument", criteria.Instrument),
		zap.Int("available", result.AvailableCount),
		zap.Int("unavailable", result.UnavailableCount))
	c.JSON(http.StatusOK, result)
}

func (h *MatchingHandler) CheckAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.Service.CheckMusicianAvailability(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
