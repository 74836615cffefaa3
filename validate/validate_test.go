package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gridlock-game/gridlock/game/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func hasError(result ValidationResult, substr string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	validConfig := `{
		"name": "Test Campaign",
		"description": "Test configuration",
		"start_level": 1,
		"levels": {
			"0": "[Player]\nPosition=1,1\n\n[Entrance]\nLevel=1\nPosition=3,3\n",
			"1": "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n"
		}
	}`

	path := writeConfig(t, validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Errorf("Expected valid config, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(path) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"name": "test", invalid json}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to bad JSON")
	}
	if !hasError(result, "Invalid JSON") {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasError(result, "Failed to read file") {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateConfig_NoLevels(t *testing.T) {
	path := writeConfig(t, `{"name": "Test", "start_level": 0, "levels": {}}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to missing levels")
	}
	if !hasError(result, "no levels") {
		t.Error("Expected 'no levels' error")
	}
}

func TestValidateConfig_StartLevelMissing(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 5,
		"levels": {
			"1": "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to missing start level")
	}
	if !hasError(result, "start_level 5 is not in the level set") {
		t.Errorf("Expected start_level error, got: %v", result.Errors)
	}
}

func TestValidateConfig_NoPlayer(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 1,
		"levels": {
			"1": "[Exit]\nPosition=2,1\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to missing player")
	}
	if !hasError(result, "expected exactly 1 player, found 0") {
		t.Errorf("Expected player count error, got: %v", result.Errors)
	}
}

func TestValidateConfig_NoWayOut(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 1,
		"levels": {
			"1": "[Player]\nPosition=1,1\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config for a level with no exit or entrance")
	}
	if !hasError(result, "cannot be left") {
		t.Errorf("Expected no-way-out error, got: %v", result.Errors)
	}
}

func TestValidateConfig_UnpairedTeleporter(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 1,
		"levels": {
			"1": "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n\n[Teleporter]\nIdentifier=7\nPosition=4,4\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to unpaired teleporter")
	}
	if !hasError(result, "teleporter identifier 7 appears 1 times") {
		t.Errorf("Expected teleporter pairing error, got: %v", result.Errors)
	}
}

func TestValidateConfig_EntranceTargetMissing(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 0,
		"levels": {
			"0": "[Player]\nPosition=1,1\n\n[Entrance]\nLevel=9\nPosition=3,3\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to dangling entrance target")
	}
	if !hasError(result, "targets missing level 9") {
		t.Errorf("Expected entrance target error, got: %v", result.Errors)
	}
}

func TestValidateConfig_DoorWithoutKey(t *testing.T) {
	path := writeConfig(t, `{
		"name": "Test",
		"start_level": 1,
		"levels": {
			"1": "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n\n[Door]\nPosition=4,4\n"
		}
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to a door with no key")
	}
	if !hasError(result, "closed door(s) but no keys") {
		t.Errorf("Expected door/key error, got: %v", result.Errors)
	}
}

func TestValidateConfig_LevelFiles(t *testing.T) {
	dir := t.TempDir()
	levelText := "[Player]\nPosition=1,1\n\n[Exit]\nPosition=2,1\n"
	if err := os.WriteFile(filepath.Join(dir, "level1.txt"), []byte(levelText), 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}

	configPath := filepath.Join(dir, "campaign.json")
	config := `{
		"name": "Test",
		"start_level": 1,
		"level_files": {
			"1": "level1.txt"
		}
	}`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	result := validateConfig(configPath)
	if !result.Valid {
		t.Errorf("Expected valid config with level files, got: %v", result.Errors)
	}
}

func TestValidateReachability_ExitBehindWalls(t *testing.T) {
	// A wall of red blocks seals the exit into the right column.
	level := engine.LoadLevel(`[General]
Width=5
Height=3

[Player]
Position=1,2

[RedBlock]
Position=4,1;4,2;4,3

[Exit]
Position=5,2
`)

	msg := validateReachability(1, level)
	if msg == "" {
		t.Error("Expected reachability failure for a sealed exit")
	}
	if !strings.Contains(msg, "no exit is reachable") {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestValidateReachability_OpenPath(t *testing.T) {
	level := engine.LoadLevel(`[General]
Width=5
Height=3

[Player]
Position=1,2

[Exit]
Position=5,2
`)

	if msg := validateReachability(1, level); msg != "" {
		t.Errorf("Expected reachable exit, got: %s", msg)
	}
}

func TestValidateReachability_RaftBridgesWater(t *testing.T) {
	// Water wall with a raft already on one cell: the raft cell is
	// crossable, so the exit is reachable.
	level := engine.LoadLevel(`[General]
Width=5
Height=3

[Player]
Position=1,2

[Water]
Position=3,1;3,2;3,3

[Raft]
Position=3,2

[Exit]
Position=5,2
`)

	if msg := validateReachability(1, level); msg != "" {
		t.Errorf("Expected raft to bridge the water, got: %s", msg)
	}
}
