package feed_test

import (
	"civicchain/backend/internal/models"
	"sync/atomic"
)

type MockClient struct {
	id          string
	RecvChannel chan models.FeedEvent
	closed      atomic.Int32
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		RecvChannel: make(chan models.FeedEvent, buffer),
	}
}

func (c *MockClient) GetID() string {
	return c.id
}

func (c *MockClient) GetSendChannel() chan<- models.FeedEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Add(1)
}

func (c *MockClient) Closed() int {
	return int(c.closed.Load())
}
