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

var secret = []byte("test-secret")

func signed(t *testing.T, method jwt.SigningMethod, key any, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		AdminID: 9,
		Email:   "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		id, _ := c.Get(CtxAdminID)
		c.JSON(http.StatusOK, gin.H{"admin": id})
	})
	return r
}

func get(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware(secret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Success - Valid token", "Bearer " + signed(t, jwt.SigningMethodHS256, secret, time.Now().Add(time.Hour)), http.StatusOK},
		{"Success - Lowercase scheme", "bearer " + signed(t, jwt.SigningMethodHS256, secret, time.Now().Add(time.Hour)), http.StatusOK},
		{"Error - Missing header", "", http.StatusUnauthorized},
		{"Error - Wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"Error - Expired", "Bearer " + signed(t, jwt.SigningMethodHS256, secret, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"Error - Foreign key", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"Error - Unsigned", "Bearer " + signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, time.Now().Add(time.Hour)), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{AdminID: 1}).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(token, secret)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newEngine(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)

	// another client has its own bucket
	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = get(r, map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS("https://crm.example.com"))

	w := get(r, nil)
	assert.Equal(t, "https://crm.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
