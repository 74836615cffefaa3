package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/gridlock-game/gridlock/game/engine"
)

func testState(t *testing.T) *engine.GameState {
	t.Helper()
	return engine.NewGameState(engine.LoadLevel(engine.DefaultLevel), 0)
}

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		send:      make(chan []byte, 4),
		sessionID: sessionID,
	}
}

// startHub runs the hub's event loop and returns a stop function that
// shuts it down and waits for it to exit, after which the hub's maps
// can be inspected without racing the loop.
func startHub(t *testing.T) (*Hub, func()) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	return hub, func() {
		cancel()
		<-done
	}
}

func TestAttachAndDetach(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "s1")

	hub.attach(client)
	if len(hub.sessions["s1"]) != 1 {
		t.Fatalf("expected 1 client in session, got %d", len(hub.sessions["s1"]))
	}

	other := newTestClient(hub, "s1")
	hub.attach(other)
	if len(hub.sessions["s1"]) != 2 {
		t.Fatalf("expected 2 clients in session, got %d", len(hub.sessions["s1"]))
	}

	hub.detach(client)
	if len(hub.sessions["s1"]) != 1 {
		t.Errorf("expected 1 client after unregister, got %d", len(hub.sessions["s1"]))
	}
	if _, ok := <-client.send; ok {
		t.Error("unregister should close the client's send channel")
	}

	// Removing the last client drops the session entry entirely.
	hub.detach(other)
	if _, ok := hub.sessions["s1"]; ok {
		t.Error("empty session should be removed from the hub")
	}

	// Unregistering twice is a no-op.
	hub.detach(other)
}

func TestBroadcastToSession(t *testing.T) {
	hub, stop := startHub(t)
	client := newTestClient(hub, "s1")
	stranger := newTestClient(hub, "s2")
	hub.register <- client
	hub.register <- stranger

	state := testState(t)
	events := []engine.Event{{Kind: engine.EventLevelFinished, Level: 0}}
	hub.BroadcastToSession("s1", state, events)
	stop()

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.SessionID != "s1" {
			t.Errorf("session_id = %q", msg.SessionID)
		}
		if msg.Event != "state_update" {
			t.Errorf("event = %q", msg.Event)
		}
		if msg.GameState == nil {
			t.Error("game_state missing from broadcast")
		}
		if len(msg.Events) != 1 || msg.Events[0].Kind != engine.EventLevelFinished {
			t.Errorf("events = %+v", msg.Events)
		}
	default:
		t.Fatal("client received no broadcast")
	}

	select {
	case <-stranger.send:
		t.Error("broadcast leaked into another session")
	default:
	}
}

func TestBroadcastToSessionDropsSlowClient(t *testing.T) {
	hub, stop := startHub(t)
	client := &Client{hub: hub, send: make(chan []byte), sessionID: "s1"}
	hub.register <- client

	// The unbuffered channel has no reader, so the send falls through to
	// the default case and the client is dropped.
	hub.BroadcastToSession("s1", testState(t), nil)
	stop()

	if _, ok := hub.sessions["s1"]; ok {
		t.Error("slow client should have been unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("dropped client's send channel should be closed")
	}
}

func TestBroadcastToUnknownSession(t *testing.T) {
	hub, stop := startHub(t)
	// Must not panic or create a session entry.
	hub.BroadcastToSession("nobody", testState(t), nil)
	stop()

	if len(hub.sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(hub.sessions))
	}
}

// Registrations, removals, and broadcasts arrive from many goroutines
// at once in production (HTTP handlers plus the simulation loop); all
// of them must serialize through the run loop.
func TestConcurrentBroadcastAndRegister(t *testing.T) {
	hub, stop := startHub(t)
	state := testState(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		sessionID := fmt.Sprintf("s%d", i%3)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				client := newTestClient(hub, id)
				hub.register <- client
				hub.unregister <- client
			}
		}(sessionID)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				hub.BroadcastToSession(id, state, nil)
			}
		}(sessionID)
	}
	wg.Wait()
	stop()
}

func TestMessageJSONShape(t *testing.T) {
	data, err := json.Marshal(&Message{SessionID: "s1", Event: "ping"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["session_id"] != "s1" || decoded["event"] != "ping" {
		t.Errorf("unexpected shape: %s", data)
	}
	if _, ok := decoded["game_state"]; ok {
		t.Error("empty game_state should be omitted")
	}
	if _, ok := decoded["events"]; ok {
		t.Error("empty events should be omitted")
	}
}
