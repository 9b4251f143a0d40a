package middleware

import (
	"log/slog"
	"net/http"

	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles requests per client IP. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.FullPath()+"|"+c.ClientIP())
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			response.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
