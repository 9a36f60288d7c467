package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser clients from any origin to call the API.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", idempotencyHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	config.MaxAge = 12 * time.Hour
	return cors.New(config)
}
