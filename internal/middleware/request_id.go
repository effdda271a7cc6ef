package middleware

import (
	"time"

	"modkeeper/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

/**
 * Tag each request with an id and log its outcome
 * @description
 * - Reuses the caller's X-Request-ID when present, otherwise generates one
 * - Echoes the id in the response header and stores it under "request_id"
 */
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		log := logger.With("http")
		log.Info().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}
