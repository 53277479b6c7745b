package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/models"
	"crmdesk/internal/services"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// @Summary      Admin login
// @Description  Returns a bearer token valid for 24 hours
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      429    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	token, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "auth", "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Current admin
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, email := adminFromCtx(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "email": email})
}
