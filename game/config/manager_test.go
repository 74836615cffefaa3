package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridlock-game/gridlock/game/engine"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

const testLevelText = `[Player]
Position=1,1

[Exit]
Position=3,3
`

func TestLoadConfigEmbeddedLevels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "puzzle.json", `{
		"name": "Puzzle",
		"description": "test set",
		"start_level": 1,
		"levels": {
			"0": "[Player]\nPosition=1,1\n",
			"1": "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n"
		}
	}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	config, err := m.LoadConfig("puzzle")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Name != "Puzzle" || config.StartLevel != 1 {
		t.Errorf("Unexpected config: %+v", config)
	}
	if len(config.Levels) != 2 {
		t.Errorf("Expected 2 levels, got %d", len(config.Levels))
	}
}

func TestLoadConfigLevelFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "level1.txt", testLevelText)
	writeFile(t, dir, "puzzle.json", `{
		"name": "Puzzle",
		"start_level": 1,
		"level_files": {"1": "level1.txt"}
	}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	config, err := m.LoadConfig("puzzle")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Levels[1] != testLevelText {
		t.Errorf("Level file content not loaded: %q", config.Levels[1])
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "badlevel.json", `{
		"name": "Bad",
		"start_level": 5,
		"levels": {"0": ""}
	}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := m.LoadConfig("nonexistent"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
	if _, err := m.LoadConfig("broken"); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := m.LoadConfig("badlevel"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

func TestListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"name": "One", "levels": {"0": "[Player]\nPosition=1,1\n"}}`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "notes.txt", "ignore me")

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 valid config, got %d", len(configs))
	}
	if configs[0].ConfigID != "one" || configs[0].Name != "One" || configs[0].LevelCount != 1 {
		t.Errorf("Unexpected config info: %+v", configs[0])
	}
}

func TestGetDefaultFallsBackToMinimal(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	config := m.GetDefault()
	if config == nil {
		t.Fatal("Expected a default config")
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		t.Errorf("Minimal default config is invalid: %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	original := &engine.GameConfig{
		Name:       "Saved",
		StartLevel: 0,
		Levels:     map[uint16]string{0: testLevelText},
	}
	if err := m.SaveConfig("saved", original); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	loaded, err := m.LoadConfig("saved")
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if loaded.Name != "Saved" || loaded.Levels[0] != testLevelText {
		t.Errorf("Round trip changed the config: %+v", loaded)
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	err = m.SaveConfig("bad", &engine.GameConfig{Name: "Bad"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}

// The shipped campaign is loaded through the real manager so a level
// whose [General] section the parser does not understand (and which
// would silently fall back to the default grid) fails here.
func TestShippedConfigDimensions(t *testing.T) {
	m, err := NewManager("../../configs")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	campaign, err := m.LoadConfig("campaign")
	if err != nil {
		t.Fatalf("LoadConfig(campaign) failed: %v", err)
	}

	want := map[uint16]engine.Dimensions{
		0: {Width: 12, Height: 8},
		1: {Width: 8, Height: 6},
		2: {Width: 10, Height: 8},
		3: {Width: 10, Height: 8},
		4: {Width: 12, Height: 9},
	}
	if len(campaign.Levels) != len(want) {
		t.Fatalf("Expected %d campaign levels, got %d", len(want), len(campaign.Levels))
	}
	for number, dims := range want {
		got := engine.LoadLevel(campaign.Levels[number]).Dimensions
		if got != dims {
			t.Errorf("Campaign level %d: dimensions %+v, want %+v", number, got, dims)
		}
	}

	sandbox, err := m.LoadConfig("sandbox")
	if err != nil {
		t.Fatalf("LoadConfig(sandbox) failed: %v", err)
	}
	if got := engine.LoadLevel(sandbox.Levels[1]).Dimensions; got != (engine.Dimensions{Width: 14, Height: 10}) {
		t.Errorf("Sandbox level 1: dimensions %+v", got)
	}
}
