package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIError is the body of every JSON error response.
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	RequestID string    `json:"requestId,omitempty"`
}

// Success writes data as the response body.
func Success[T any](c *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// NoContent writes an empty response with status 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an APIError and aborts the handler chain.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, NewAPIError(c, status, message))
}

func NewAPIError(c *gin.Context, status int, message string) APIError {
	return APIError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
		RequestID: c.GetString("request_id"),
	}
}
