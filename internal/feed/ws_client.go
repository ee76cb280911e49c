package feed

import (
	"civicchain/backend/internal/models"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// WebSocketClient streams feed events to one browser connection. Messages
// sent by the browser are ignored; reads only keep the connection alive.
type WebSocketClient struct {
	ID     string
	Wallet string
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.FeedEvent

	logger    *zap.Logger
	closeOnce sync.Once
}

// NewWebSocketClient wraps conn for hub.
func NewWebSocketClient(id, wallet string, conn *websocket.Conn, hub *ManagerService, logger *zap.Logger) *WebSocketClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketClient{
		ID:     id,
		Wallet: wallet,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.FeedEvent, sendBuffer),
		logger: logger,
	}
}

func (c *WebSocketClient) GetID() string                           { return c.ID }
func (c *WebSocketClient) GetSendChannel() chan<- models.FeedEvent { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump and closes the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		select {
		case c.Hub.UnregisterCh <- c:
		case <-c.Hub.Done():
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("feed read error", zap.String("client", c.ID), zap.String("wallet", c.Wallet), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				c.logger.Debug("feed write error", zap.String("client", c.ID), zap.String("wallet", c.Wallet), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
