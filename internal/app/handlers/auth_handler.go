package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/dto"
	"github.com/quillsign/quillsign/internal/domain/services"
)

// AuthHandler serves login and logout
type AuthHandler struct {
	*BaseHandler
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		authService: authService,
	}
}

// Login checks credentials and mints a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid login payload", err.Error())
		return
	}

	token, identity, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	h.RespondSuccess(c, dto.LoginResponse{Token: token, User: identity})
}

// Logout drops the caller's session
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		h.RespondBadRequest(c, "Authorization header must be in format: Bearer <token>")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "logged out"})
}

// Me returns the identity behind the current session
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	h.RespondSuccess(c, identity)
}
