package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs every request through zap. Health checks are skipped.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/ping" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request.method", c.Request.Method),
			zap.String("request.path", c.Request.URL.Path),
			zap.String("request.route", c.FullPath()),
			zap.String("request.query", c.Request.URL.RawQuery),
			zap.String("request.remote_ip", c.ClientIP()),
			zap.String("request.user_agent", c.Request.UserAgent()),
			zap.Int64("request.content_length", c.Request.ContentLength),
			zap.Int("response.status", status),
			zap.Int("response.size", c.Writer.Size()),
			zap.Duration("response.latency", latency),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}
		if ce := logger.Check(level, "HTTP request"); ce != nil {
			ce.Write(fields...)
		}
	}
}
