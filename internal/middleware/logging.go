package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"flock/internal/logger"
)

// RequestLogger writes one line per request through the service logger.
// Errors attached with c.Error are logged and noticed on the New Relic
// transaction when one is running.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			txn := nrgin.Transaction(c)
			for _, e := range c.Errors {
				if txn != nil {
					txn.NoticeError(e.Err)
				}
			}
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request handled", fields...)
		}
	}
}
