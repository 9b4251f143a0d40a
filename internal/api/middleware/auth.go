package middleware

import (
	"net/http"
	"strings"

	"ctchen222/movie-catalog/internal/api/response"
	"ctchen222/movie-catalog/internal/api/service"

	"github.com/gin-gonic/gin"
)

const usernameKey = "auth.username"

// RequireAuth rejects requests without a valid bearer token and stores the
// token's username in the gin context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Header("WWW-Authenticate", `Bearer realm="movie-catalog"`)
			response.ErrorResponse(c, http.StatusUnauthorized, "missing or invalid Authorization header")
			return
		}

		username, err := authService.VerifyToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="movie-catalog", error="invalid_token"`)
			response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// RequireSelf only lets the authenticated user act on the user named by the
// path parameter param.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUsername(c) != c.Param(param) {
			response.ErrorResponse(c, http.StatusForbidden, service.ErrForbidden.Error())
			return
		}
		c.Next()
	}
}

// CurrentUsername returns the username bound by RequireAuth, or "".
func CurrentUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
