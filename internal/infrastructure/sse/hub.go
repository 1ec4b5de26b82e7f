// Package sse mantiene los clientes conectados por Server-Sent Events y les
// difunde los eventos del tablero de su obra.
package sse

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
)

var _ analytics.EventPublisher = (*Hub)(nil)

const clientBuffer = 16

// Event evento SSE.
type Event struct {
	Type string
	Data string
}

// Client cliente conectado al tablero de una obra.
type Client struct {
	ID     string
	ObraID string
	Events chan Event
}

// Hub registro de clientes. Los envíos no bloquean: si el buffer de un cliente
// está lleno el evento se descarta para ese cliente.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

// NewHub crea un hub vacío.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log.With().Str("component", "sse").Logger(),
	}
}

// Register da de alta un cliente nuevo para la obra.
func (h *Hub) Register(obraID string) *Client {
	c := &Client{ID: uuid.NewString(), ObraID: obraID, Events: make(chan Event, clientBuffer)}
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Str("client_id", c.ID).Str("obra_id", obraID).Int("total", total).Msg("cliente registrado")
	return c
}

// Unregister da de baja el cliente y cierra su canal.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	c, ok := h.clients[clientID]
	if ok {
		close(c.Events)
		delete(h.clients, clientID)
	}
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Debug().Str("client_id", clientID).Int("total", total).Msg("cliente dado de baja")
	}
}

// Publish envía el evento a los clientes de la obra.
func (h *Hub) Publish(obraID, event string, data []byte) {
	ev := Event{Type: event, Data: string(data)}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.ObraID != obraID {
			continue
		}
		select {
		case c.Events <- ev:
		default:
			h.log.Warn().Str("client_id", c.ID).Msg("buffer lleno, evento descartado")
		}
	}
}

// Clients número de clientes conectados a la obra.
func (h *Hub) Clients(obraID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.ObraID == obraID {
			n++
		}
	}
	return n
}

// Close da de baja a todos los clientes; sus streams terminan.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
}
