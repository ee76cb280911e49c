package handler

import (
	"civicchain/backend/internal/feed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServeFeed оновлює автентифікований запит до WebSocket, який отримує
// всі події скарг
func (h *Handler) ServeFeed(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "Authorization token missing"})
		return
	}
	wallet, err := h.Tokens.Wallet(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Message: "Invalid token or expired"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade вже записав відповідь з помилкою
		h.logger.Warn("websocket upgrade failed", zap.String("wallet", wallet), zap.Error(err))
		return
	}

	client := feed.NewWebSocketClient(uuid.NewString(), wallet, conn, h.Hub, h.logger)
	select {
	case h.Hub.RegisterCh <- client:
	case <-h.Hub.Done():
		conn.Close()
		return
	case <-c.Request.Context().Done():
		conn.Close()
		return
	}
	client.Run()
}
