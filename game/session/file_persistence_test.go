package session

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gridlock-game/gridlock/game/engine"
	"github.com/gridlock-game/gridlock/game/service"
)

// stubConfigManager serves a single fixed configuration.
type stubConfigManager struct {
	config *engine.GameConfig
}

func (s *stubConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	return s.config, nil
}

func (s *stubConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{{ConfigID: "test", Name: s.config.Name}}, nil
}

func (s *stubConfigManager) GetDefault() *engine.GameConfig { return s.config }

func (s *stubConfigManager) SaveConfig(name string, config *engine.GameConfig) error { return nil }

func newTestPersistence(t *testing.T) *FilePersistence {
	t.Helper()
	fp, err := NewFilePersistence(t.TempDir(), &stubConfigManager{config: testConfig()})
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}
	return fp
}

func TestFilePersistenceRoundTrip(t *testing.T) {
	fp := newTestPersistence(t)
	m := NewManagerWithPersistence(fp)

	sess, err := m.Create("save", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Make a move so the persisted state differs from a fresh engine.
	if err := sess.Engine.MovePlayer(engine.Down); err != nil {
		t.Fatalf("MovePlayer failed: %v", err)
	}
	if err := m.Save("save"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !fp.Exists("save") {
		t.Fatal("Session file missing after save")
	}

	loaded, err := fp.Load("save")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != "save" {
		t.Errorf("Expected ID save, got %s", loaded.ID)
	}

	state := loaded.Engine.GetState()
	if state.TotalMoves != 1 {
		t.Errorf("Expected 1 recorded move, got %d", state.TotalMoves)
	}
	player := state.PlayerObject()
	if player == nil || player.Position != (engine.Position{X: 1, Y: 2}) {
		t.Errorf("Player position not restored: %+v", player)
	}
}

func TestFilePersistenceLazyLoad(t *testing.T) {
	fp := newTestPersistence(t)
	m := NewManagerWithPersistence(fp)

	if _, err := m.Create("lazy", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A fresh manager sharing the same storage finds the session on Get.
	other := NewManagerWithPersistence(fp)
	sess, err := other.Get("lazy")
	if err != nil {
		t.Fatalf("Get from persistence failed: %v", err)
	}
	if sess.ID != "lazy" {
		t.Errorf("Expected ID lazy, got %s", sess.ID)
	}
}

func TestFilePersistenceDelete(t *testing.T) {
	fp := newTestPersistence(t)

	if err := fp.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}

	m := NewManagerWithPersistence(fp)
	if _, err := m.Create("bye", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Delete("bye"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("bye") {
		t.Error("Session file still present after delete")
	}
}

func TestFilePersistenceListAll(t *testing.T) {
	fp := newTestPersistence(t)
	m := NewManagerWithPersistence(fp)

	for _, id := range []string{"a1", "b2"} {
		if _, err := m.Create(id, testConfig()); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 persisted sessions, got %d", len(ids))
	}

	// LoadPersistedSessions fills a fresh manager.
	other := NewManagerWithPersistence(fp)
	if err := other.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if other.Count() != 2 {
		t.Errorf("Expected 2 loaded sessions, got %d", other.Count())
	}
}

func TestFilePersistenceSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, &stubConfigManager{config: testConfig()})
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}
	m := NewManagerWithPersistence(fp)

	if _, err := m.Create("atomic", testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Save("atomic"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Overwriting an existing file goes through the same rename.
	if err := m.Save("atomic"); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "atomic" {
		t.Errorf("Expected [atomic], got %v", ids)
	}
}
