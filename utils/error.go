package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response and logs it on the request logger.
func JSONError(c *gin.Context, logger *zap.Logger, status int, message string, details string) {
	logger.Warn(message, zap.Int("status", status), zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFromError maps an engine error to an HTTP status.
func StatusFromError(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the caller-visible form of err. Validation and not-found
// errors keep their message and fields; everything else becomes a generic 500
// and the cause is only logged.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, ErrorResponse{Message: "Internal Server Error"})
		return
	}

	appErr, _ := AsAppError(err)
	logger.Warn(appErr.Message, zap.String("kind", string(appErr.Kind)), zap.Strings("fields", appErr.Fields))
	c.JSON(status, ErrorResponse{Message: appErr.Message, Fields: appErr.Fields})
}
