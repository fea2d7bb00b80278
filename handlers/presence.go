package handlers

import (
	"net/http"
	"time"

	"gigmatch/models"
	"gigmatch/services/presence"
	"gigmatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PresenceHandler struct {
	Service presence.PresenceService
}

func NewPresenceHandler(service presence.PresenceService) *PresenceHandler {
	return &PresenceHandler{Service: service}
}

// HeartbeatHandler records a heartbeat stamped with the server receipt time.
func (h *PresenceHandler) HeartbeatHandler(c *gin.Context) {
	logger := getLogger(c)
	receivedAt := time.Now().UTC()

	var req models.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	if err := h.Service.RegisterHeartbeat(c.Request.Context(), req.MusicianID, req.Location, receivedAt); err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "receivedAt": receivedAt})
}

func (h *PresenceHandler) UpdateStatusHandler(c *gin.Context) {
	logger := getLogger(c)
	musicianID := c.Param("musicianId")

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	record, err := h.Service.UpdateStatus(c.Request.Context(), musicianID, req)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	logger.Info("Presence status updated", zap.String("musicianId", musicianID))
	c.JSON(http.StatusOK, gin.H{"status": record, "state": h.Service.State(*record)})
}

func (h *PresenceHandler) GetStatusHandler(c *gin.Context) {
	logger := getLogger(c)

	record, err := h.Service.GetStatus(c.Request.Context(), c.Param("musicianId"))
	if appErr, ok := utils.AsAppError(err); ok && appErr.Kind == utils.KindNotFound {
		// never reported
		c.JSON(http.StatusNotFound, gin.H{"message": appErr.Message, "state": models.PresenceUnknown})
		return
	}
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": record, "state": h.Service.State(*record)})
}

type onlineQuery struct {
	Lat        *float64 `form:"lat"`
	Lng        *float64 `form:"lng"`
	Radius     float64  `form:"radius"`
	EventType  string   `form:"eventType"`
	Instrument string   `form:"instrument"`
	MinBudget  float64  `form:"minBudget"`
	MaxBudget  float64  `form:"maxBudget"`
}

func (h *PresenceHandler) GetOnlineHandler(c *gin.Context) {
	logger := getLogger(c)

	var q onlineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, logger, err)
		return
	}

	filter := models.OnlineFilter{
		LocationRadius: q.Radius,
		EventType:      q.EventType,
		Instrument:     q.Instrument,
		MinBudget:      q.MinBudget,
		MaxBudget:      q.MaxBudget,
	}
	if q.Lat != nil && q.Lng != nil {
		filter.Location = &models.GeoPoint{Lat: *q.Lat, Lng: *q.Lng}
	}

	records, err := h.Service.GetOnlineMusicians(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"musicians": records, "count": len(records)})
}
