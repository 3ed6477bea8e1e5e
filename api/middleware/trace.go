package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/validation"
)

const (
	TraceIDHeader = "X-Trace-ID"
	traceIDKey    = "trace_id"
	maxTraceIDLen = 128
)

func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := validation.SanitizeString(c.GetHeader(TraceIDHeader))
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.New().String()
		}

		c.Set(traceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Next()
	}
}

func GetTraceID(c *gin.Context) string {
	if traceID, ok := c.Get(traceIDKey); ok {
		if s, ok := traceID.(string); ok {
			return s
		}
	}
	return ""
}
