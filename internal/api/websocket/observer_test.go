package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/cubedraft/internal/events"
)

func TestWebSocketObserver_Forwards(t *testing.T) {
	hub := startHub(t)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn := dial(t, server, nil)
	waitForClients(t, hub, 1)

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(NewWebSocketObserver(hub))
	dispatcher.Dispatch(events.NewEvent(context.Background(), events.TypeDraftCreated, events.DraftCreatedEvent{
		DraftID: "d1",
		Seats:   8,
	}))

	event := readEvent(t, conn)
	assert.Equal(t, events.TypeDraftCreated, event.Type)
	data, ok := event.Data.(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, "d1", data["draft_id"])
		assert.Equal(t, float64(8), data["seats"])
	}
}

func TestWebSocketObserver_NilHub(t *testing.T) {
	observer := &WebSocketObserver{name: "TestObserver"}
	err := observer.OnEvent(events.NewEvent(context.Background(), "test:event", map[string]string{"k": "v"}))
	assert.NoError(t, err)
	assert.Equal(t, "TestObserver", observer.GetName())
	assert.True(t, observer.ShouldHandle("anything"))
}

func TestWebSocketObserver_StoppedHub(t *testing.T) {
	hub := startHub(t)
	hub.Stop()

	observer := NewWebSocketObserver(hub)
	assert.NoError(t, observer.OnEvent(events.NewEvent(context.Background(), "test:event", 1)))
}
