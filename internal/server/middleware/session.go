package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Context keys and header names used by the session middleware.
const (
	SessionTokenKey = "session_token"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// SessionConfig holds configuration for SessionAuth.
type SessionConfig struct {
	// SkipPaths are paths that don't require a session
	SkipPaths []string
	Logger    *zap.Logger
	// Now is used for the expiry check; defaults to time.Now.
	Now func() time.Time
}

// SessionAuth requires a bearer session token and stores it under
// SessionTokenKey for handlers to forward to the clinic backend. The token is
// not verified here since the backend owns the signing key. When it is a JWT
// carrying an exp claim in the past the request is rejected early.
func SessionAuth(cfg SessionConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Sesi tidak ditemukan, silakan login kembali")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, "Sesi tidak ditemukan, silakan login kembali")
			return
		}

		if expired(parser, token, now()) {
			logger.Debug("expired session token rejected", zap.String("path", path))
			abortUnauthorized(c, "Sesi telah berakhir, silakan login kembali")
			return
		}

		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

// SessionToken returns the token stored by SessionAuth.
func SessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

// expired is false for opaque (non-JWT) tokens and for JWTs without exp.
func expired(parser *jwt.Parser, token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": message})
}
