package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"TicketBot/entity"
	"TicketBot/internal/lib/sl"
)

// ClientMessageHandler handles incoming WebSocket messages from operators.
type ClientMessageHandler interface {
	CancelTicket(username string, channelID int64) error
}

// Event represents a WebSocket event sent to operators.
type Event struct {
	Type string      `json:"type"` // "ticket_opened", "ticket_answered", ...
	Data interface{} `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	handler    ClientMessageHandler
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With(sl.Module("ws")),
	}
}

// SetHandler sets the handler for incoming client messages.
func (h *Hub) SetHandler(handler ClientMessageHandler) {
	h.handler = handler
}

// Run starts the hub's event loop until ctx is done. Should be called in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("failed to encode ws event", sl.Err(err))
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastTicket sends a ticket event to all connected operators. The event
// is dropped when the queue is full.
func (h *Hub) BroadcastTicket(event string, ticket *entity.Ticket) {
	select {
	case h.broadcast <- &Event{Type: event, Data: ticket}:
	default:
		h.log.Warn("ws broadcast queue full, event dropped",
			slog.String("event", event),
			slog.String("ticket_id", ticket.ID),
		)
	}
}

// clientEvent represents an incoming WebSocket message from an operator.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming message from a client.
func (h *Hub) HandleClientMessage(username string, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.Warn("failed to parse client ws message", sl.Err(err))
		return
	}

	switch event.Type {
	case "cancel_ticket":
		var data struct {
			ChannelID int64 `json:"channel_id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.Warn("failed to parse cancel_ticket data", sl.Err(err))
			return
		}
		if data.ChannelID == 0 {
			return
		}
		if err := h.handler.CancelTicket(username, data.ChannelID); err != nil {
			h.log.Error("failed to handle cancel_ticket",
				slog.String("username", username),
				slog.Int64("channel_id", data.ChannelID),
				sl.Err(err),
			)
		}
	default:
		h.log.Debug("unknown client ws message", slog.String("type", event.Type))
	}
}
