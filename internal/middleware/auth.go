package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// InternalAuthMiddleware guards the API with a shared service token. The
// public-facing gateway terminates user auth; this service only talks to
// other backend services.
type InternalAuthMiddleware struct {
	log   *logger.Logger
	token string
}

func NewInternalAuthMiddleware(log *logger.Logger) *InternalAuthMiddleware {
	return &InternalAuthMiddleware{
		log:   log.With("Middleware", "InternalAuthMiddleware"),
		token: envutil.Str("INTERNAL_API_TOKEN", ""),
	}
}

func (am *InternalAuthMiddleware) RequireServiceToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		// No configured token means an open deployment (local dev).
		if am.token == "" {
			c.Next()
			return
		}
		presented := extractToken(c)
		if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(am.token)) != 1 {
			am.log.Warn("rejected request with missing or invalid service token", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("X-Internal-Token"); h != "" {
		return h
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
