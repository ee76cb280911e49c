package handler

import (
	"civicchain/backend/internal/ai"
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string           `json:"message" binding:"required,max=4000"`
	History []ai.ChatMessage `json:"history"`
}

// Chat answers a question about the platform. Without a configured model it
// returns a fixed notice with status 200.
func (h *Handler) Chat(c *gin.Context) {
	if !h.Assistant.Available() {
		c.JSON(http.StatusOK, gin.H{"message": ai.UnavailableNotice})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid chat message", Errors: fieldErrors(err)})
		return
	}

	reply, err := h.Assistant.Reply(c.Request.Context(), req.Message, req.History)
	if err != nil {
		h.internalError(c, "Failed to process chat message", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}
