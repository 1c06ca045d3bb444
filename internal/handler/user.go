package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"citylift/internal/repository"
)

// UserHandler serves read-only account data.
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}
