package handlers

import (
	"net/http"

	"gigmatch/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	// Status returns the latest store probe; defaults to utils.GetHealthStatus.
	Status func() utils.HealthStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Status: utils.GetHealthStatus}
}

func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := h.Status()
	code := http.StatusOK
	state := "ok"
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "message": "Hi, I'm gigmatch", "stores": status})
}
