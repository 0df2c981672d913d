package api

import (
	"errors"
	"net/http"

	"zsports/sports-history/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}

// SessionResponse echoes the claims of the caller's token.
type SessionResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login godoc
// @Summary Exchange admin credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Admin email and password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} gin.H
// @Failure 401 {object} gin.H
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		log.Warnf("api: failed login for %s from %s", req.Email, c.ClientIP())
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		log.Errorf("api: login: %v", err)
		abortWithError(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}

// Session godoc
// @Summary Show who the bearer token belongs to
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} gin.H
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Email: c.GetString(ContextEmailKey), Role: role})
}
