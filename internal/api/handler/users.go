package handler

import (
	"civicchain/backend/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerUserRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// RegisterUser returns the user for a wallet, creating it on first call.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid user data", Errors: fieldErrors(err)})
		return
	}

	user, err := h.Complaints.RegisterUser(c.Request.Context(), req.WalletAddress)
	if err != nil {
		h.internalError(c, "Failed to register user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Complaints.GetUser(c.Request.Context(), c.Param("address"))
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "User not found"})
		return
	case err != nil:
		h.internalError(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	users, err := h.Complaints.Leaderboard(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
