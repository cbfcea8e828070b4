package middleware

import (
	"context"
	"time"

	"camdeck/pkg/logger"
	"camdeck/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware tags every request with an ID and logs it on
// completion, carrying the ID and authenticated user through the request
// context for downstream log lines.
func RequestLoggerMiddleware(zapLogger *zap.Logger) gin.HandlerFunc {
	contextLogger := logger.NewContextLogger(zapLogger)

	return func(c *gin.Context) {
		start := time.Now()

		requestID := utils.GenerateRequestID()
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		if userID := c.GetString(CtxUserID); userID != "" {
			ctx = context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
		} else {
			ctx = c.Request.Context()
		}

		contextLogger.LogRequest(ctx, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
