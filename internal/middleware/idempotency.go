package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"flock/internal/logger"
	"flock/internal/redis"
)

const idempotencyHeader = "Idempotency-Key"

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key. Keys are scoped to the caller, method and path, so it must
// run after the auth middleware of the route group.
func IdempotencyMiddleware(store redis.IdempotencyStoreInterface, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		scoped := scopeKey(c, key)

		cached, err := store.GetResponse(ctx, scoped)
		if err != nil {
			// Redis error - proceed without idempotency.
			log.Warn("idempotency lookup failed", logger.Error(err))
			c.Next()
			return
		}

		if cached != nil {
			for k, v := range cached.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := redis.StoredResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			if err := store.SaveResponse(ctx, scoped, &response); err != nil {
				log.Warn("idempotency save failed", logger.Error(err))
			}
		}
	}
}

func scopeKey(c *gin.Context, key string) string {
	caller := "anonymous"
	if p, ok := PrincipalFrom(c); ok {
		caller = p.ID
	}
	return caller + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	// Only cache Content-Type header.
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
