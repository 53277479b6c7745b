package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/middleware"
	"crmdesk/internal/services"
)

// parseID reads a positive integer path parameter and answers 400 otherwise.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps service errors to status codes. Internal errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, area, op string, err error) {
	var de *services.DomainError
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.As(err, &de):
		status := http.StatusBadRequest
		if de.Code == services.ErrCodeNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": de.Message})
	default:
		log.Printf("[%s][%s][err] req=%s %v", area, op, c.GetString(middleware.CtxRequestID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func adminFromCtx(c *gin.Context) (int64, string) {
	id, _ := c.Get(middleware.CtxAdminID)
	email, _ := c.Get(middleware.CtxAdminEmail)
	n, _ := id.(int64)
	s, _ := email.(string)
	return n, s
}
