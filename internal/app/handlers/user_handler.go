package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/repositories"
)

// UserHandler serves the demo user directory used for recipient lookup
type UserHandler struct {
	*BaseHandler
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		userRepo:    userRepo,
	}
}

// List returns the directory, ordered by name
func (h *UserHandler) List(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}

	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, users)
}
