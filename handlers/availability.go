package handlers

import (
	"net/http"

	"gigmatch/models"
	"gigmatch/services/availability"
	"gigmatch/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	Service availability.ConflictService
}

func NewAvailabilityHandler(service availability.ConflictService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: service}
}

func (h *AvailabilityHandler) CheckConflictsHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.Service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AvailabilityHandler) BatchAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.BatchAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	result, err := h.Service.CheckMultipleMusiciansAvailability(c.Request.Context(), req.MusicianIDs, req.StartTime, req.EndTime)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AvailabilityHandler) DailyAvailabilityHandler(c *gin.Context) {
	logger := getLogger(c)

	result, err := h.Service.GetDailyAvailability(c.Request.Context(), c.Param("musicianId"), c.Query("date"))
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
