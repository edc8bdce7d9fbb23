package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/logging"
	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/metrics"
)

const userIDKey = "user_id"

// requestIDMiddleware tags the request context with a request id, reusing a
// well-formed incoming X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = logging.NewRequestID()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		m.RecordHTTP(c.Request.Method, route, c.Writer.Status(), elapsed)
		logging.DebugContext(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"route", route,
			logging.KeyStatus, c.Writer.Status(),
			"duration_ms", elapsed.Milliseconds())
	}
}

// userMiddleware requires a positive numeric X-User-ID header.
func userMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		userID, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(c, "UNAUTHENTICATED", "missing or invalid "+HeaderUserID+" header"))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
