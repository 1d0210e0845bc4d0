package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// StoreUser creates the caller's user record on first sign-in, or refreshes it
// POST /api/v1/users/store
func (h *Handlers) StoreUser(c *gin.Context) {
	user, err := h.resolver.Store(c.Request.Context(), auth.BearerToken(c))
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "user": user})
}

// GetMe returns the caller's profile
// GET /api/v1/users/me
func (h *Handlers) GetMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CompleteOnboarding stores the caller's location and interests
// POST /api/v1/users/me/onboarding
func (h *Handlers) CompleteOnboarding(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var input auth.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondBadRequest(c, "", "invalid request body")
		return
	}

	updated, err := h.resolver.CompleteOnboarding(c.Request.Context(), user, input)
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}
