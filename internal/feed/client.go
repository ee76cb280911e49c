package feed

import "civicchain/backend/internal/models"

// Client is one live feed subscriber (e.g., a WebSocket connection).
type Client interface {
	// GetID returns the unique connection identifier.
	GetID() string
	// GetSendChannel returns the channel the hub writes events to.
	GetSendChannel() chan<- models.FeedEvent
	// Run starts the client's pumps.
	Run()
	// Close stops the client. The hub calls it exactly once, on unregister.
	Close()
}
