package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/middleware"
	"crmdesk/internal/services"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"Validation", services.NewValidationError("title is required"), http.StatusBadRequest, "title is required"},
		{"Conflict", services.NewConflictError("goal plan is already finalized"), http.StatusBadRequest, "goal plan is already finalized"},
		{"Not found", services.NewNotFoundError("customer"), http.StatusNotFound, "customer not found"},
		{"Wrapped not found", fmt.Errorf("load: %w", services.NewNotFoundError("lead")), http.StatusNotFound, "lead not found"},
		{"Bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"Internal", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { respondError(c, "test", "op", tt.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestRespondErrorLogsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { respondError(c, "customers", "list", errors.New("connection refused")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, logs.String(), "[customers][list][err] req=abc-123 connection refused")
	assert.NotContains(t, w.Body.String(), "connection refused")
}
