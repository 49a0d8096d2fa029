package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(SessionConfig{SkipPaths: []string{"/healthz"}, Now: func() time.Time { return now }}))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/me", func(c *gin.Context) { c.String(http.StatusOK, SessionToken(c)) })
	return r
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuth(t *testing.T) {
	r := newEngine()
	valid := signed(t, now.Add(time.Hour))

	tests := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Sesi tidak ditemukan"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Sesi tidak ditemukan"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Sesi tidak ditemukan"},
		{"opaque token", "Bearer opaque-token", http.StatusOK, "opaque-token"},
		{"valid jwt", "Bearer " + valid, http.StatusOK, valid},
		{"expired jwt", "Bearer " + signed(t, now.Add(-time.Minute)), http.StatusUnauthorized, "Sesi telah berakhir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/api/me", tt.auth)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestSessionAuthSkipPaths(t *testing.T) {
	w := get(newEngine(), "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
