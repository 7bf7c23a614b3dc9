package hub

import (
	"context"
	"sync"

	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Hub хранит подключенных клиентов канала живых обновлений и раздает им события
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			metrics.LiveClients.Set(0)
			h.logger.Info("Live hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.LiveClients.Inc()
			h.logger.WithField("remote", client.remote).Info("Live client registered")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// медленный клиент не должен тормозить остальных
					h.logger.WithField("remote", client.remote).Warn("Live client send buffer full, removing")
					delete(h.clients, client)
					close(client.send)
					metrics.LiveClients.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.LiveClients.Dec()
		h.logger.WithField("remote", client.remote).Info("Live client unregistered")
	}
}

// Broadcast ставит кадр в очередь рассылки; после остановки hub кадр отбрасывается
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
