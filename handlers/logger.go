package handlers

import (
	"net/http"

	"gigmatch/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger set by middleware.RequestLogger, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}

// bindError turns a gin binding failure into a 400 body.
func bindError(c *gin.Context, logger *zap.Logger, err error) {
	utils.JSONError(c, logger, http.StatusBadRequest, "Invalid request payload", err.Error())
}
