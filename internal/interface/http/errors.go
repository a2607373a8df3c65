package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/pkg/response"
)

const internalErrorMessage = "An unexpected error occurred"

// StatusFor maps an application error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, application.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an APIError. Unclassified errors are logged and
// answered with a generic message so internals never leak to clients.
func WriteError(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}).Error("unhandled error")
		}
		response.Error(c, status, internalErrorMessage)
		return
	}
	if status == http.StatusBadGateway && logger != nil {
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("third-party provider unavailable")
	}
	response.Error(c, status, err.Error())
}

// Recovery turns panics into the generic 500 body.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		if logger != nil {
			logger.WithField("panic", rec).WithField("path", c.Request.URL.Path).Error("panic recovered")
		}
		response.Error(c, http.StatusInternalServerError, internalErrorMessage)
	})
}

// NotFound answers unknown routes with the APIError body.
func NotFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path)
}

// MethodNotAllowed answers known paths called with the wrong verb.
func MethodNotAllowed(c *gin.Context) {
	response.Error(c, http.StatusMethodNotAllowed, "Request method '"+c.Request.Method+"' is not supported")
}
