package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware gives every request an id (reusing a well-formed
// incoming X-Request-ID), echoes it back and stores it on the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(helpers.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
