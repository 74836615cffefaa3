package session

import (
	"errors"
	"testing"
	"time"

	"github.com/gridlock-game/gridlock/game/engine"
)

func testConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:   "test",
		Levels: map[uint16]string{0: engine.DefaultLevel},
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()

	sess, err := m.Create("ABCD", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID != "ABCD" {
		t.Errorf("Expected ID ABCD, got %s", sess.ID)
	}
	if sess.Engine == nil || sess.Engine.GetState().PlayerObject() == nil {
		t.Error("Session engine not initialized")
	}

	// Lookup is case-insensitive
	got, err := m.Get("abcd")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestManagerGeneratesIDs(t *testing.T) {
	m := NewManager()

	first, err := m.Create("", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := m.Create("", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(first.ID) != 4 {
		t.Errorf("Expected a 4-character ID, got %q", first.ID)
	}
	if first.ID == second.ID {
		t.Error("Generated IDs collided")
	}
}

func TestManagerDuplicateCreate(t *testing.T) {
	m := NewManager()

	if _, err := m.Create("dup", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("DUP", testConfig()); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("Expected already-exists error, got %v", err)
	}
}

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager()

	sess, err := m.GetOrCreate("xyz", testConfig())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	again, err := m.GetOrCreate("xyz", testConfig())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if sess != again {
		t.Error("GetOrCreate created a duplicate session")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
}

func TestManagerDelete(t *testing.T) {
	m := NewManager()

	if _, err := m.Create("gone", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Delete("gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Session still reachable after delete")
	}
	if err := m.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected not-found error on second delete, got %v", err)
	}
}

func TestManagerCleanupExpiredSessions(t *testing.T) {
	m := NewManager()

	old, err := m.Create("old", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("new", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := m.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", m.Count())
	}
	if _, err := m.Get("new"); err != nil {
		t.Error("Fresh session was cleaned up")
	}
}

func TestManagerUpdateLastAccessed(t *testing.T) {
	m := NewManager()

	sess, err := m.Create("live", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	before := sess.LastAccessedAt
	time.Sleep(time.Millisecond)
	if err := m.UpdateLastAccessed("LIVE"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !sess.LastAccessedAt.After(before) {
		t.Error("LastAccessedAt not advanced")
	}
}
