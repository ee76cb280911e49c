// Package feed fans complaint events out to live subscribers. A single hub
// goroutine owns the subscriber set; Redis relays events between instances.
package feed

import (
	"civicchain/backend/internal/models"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrBacklogFull is returned by Publish when the hub cannot keep up.
var ErrBacklogFull = errors.New("feed backlog full")

const broadcastBuffer = 256

// Publisher accepts complaint events.
type Publisher interface {
	Publish(ctx context.Context, event models.FeedEvent) error
}

// ManagerService is the hub: it registers clients and broadcasts events.
type ManagerService struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.FeedEvent

	mu      sync.RWMutex
	clients map[string]Client
	done    chan struct{}
	logger  *zap.Logger
}

// NewManagerService creates a hub. Call Run to start it.
func NewManagerService(logger *zap.Logger) *ManagerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManagerService{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.FeedEvent, broadcastBuffer),
		clients:      make(map[string]Client),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled. Every
// remaining client is closed on exit.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	defer m.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-m.RegisterCh:
			m.mu.Lock()
			m.clients[client.GetID()] = client
			m.mu.Unlock()
			m.logger.Debug("feed client registered", zap.String("client", client.GetID()))

		case client := <-m.UnregisterCh:
			m.remove(client)

		case event := <-m.BroadcastCh:
			m.broadcast(event)
		}
	}
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} {
	return m.done
}

// Publish queues event for broadcast without blocking on slow subscribers.
func (m *ManagerService) Publish(ctx context.Context, event models.FeedEvent) error {
	select {
	case m.BroadcastCh <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBacklogFull
	}
}

// ClientCount returns the number of registered clients.
func (m *ManagerService) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// HasClient reports whether id is registered.
func (m *ManagerService) HasClient(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[id]
	return ok
}

func (m *ManagerService) broadcast(event models.FeedEvent) {
	m.mu.RLock()
	var slow []Client
	for _, client := range m.clients {
		select {
		case client.GetSendChannel() <- event:
		default:
			slow = append(slow, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range slow {
		m.logger.Warn("dropping slow feed client", zap.String("client", client.GetID()))
		m.remove(client)
	}
}

func (m *ManagerService) remove(client Client) {
	m.mu.Lock()
	current, ok := m.clients[client.GetID()]
	if ok && current == client {
		delete(m.clients, client.GetID())
	}
	m.mu.Unlock()

	if ok && current == client {
		client.Close()
		m.logger.Debug("feed client unregistered", zap.String("client", client.GetID()))
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, client := range m.clients {
		client.Close()
		delete(m.clients, id)
	}
}

// MultiPublisher delivers each event to every publisher and joins their errors.
type MultiPublisher []Publisher

func (mp MultiPublisher) Publish(ctx context.Context, event models.FeedEvent) error {
	var errs []error
	for _, p := range mp {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
