package websocket

import (
	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/events"
)

// WebSocketObserver forwards dispatched events to every connected client.
type WebSocketObserver struct {
	name string
	hub  *Hub
}

// NewWebSocketObserver creates a new observer that forwards events to WebSocket clients.
func NewWebSocketObserver(hub *Hub) *WebSocketObserver {
	return &WebSocketObserver{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent broadcasts the event payload. A stopped hub drops the event.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Warn().Str("observer", o.name).Str("type", event.Type).Msg("cannot emit event: hub is nil")
		return nil
	}

	if !o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data}) {
		log.Debug().Str("type", event.Type).Msg("websocket hub stopped; event dropped")
	}
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for every event type.
func (o *WebSocketObserver) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*WebSocketObserver)(nil)
