package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv("CONFIG_DIR", "")
	if got := getConfigDirDefault(); got != "configs" {
		t.Errorf("Expected default 'configs', got %q", got)
	}

	t.Setenv("CONFIG_DIR", "/tmp/custom-configs")
	if got := getConfigDirDefault(); got != "/tmp/custom-configs" {
		t.Errorf("Expected env override, got %q", got)
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	opts := serverOptions{
		configDir:   configDir,
		sessionsDir: filepath.Join(dir, "sessions"),
	}

	gameService, err := initializeServices(opts)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	opts := serverOptions{
		configDir:   "/non/existent/path",
		sessionsDir: t.TempDir(),
	}

	_, err := initializeServices(opts)
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

// Note: main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// start servers and block; their behavior is covered by the api package
// tests against the assembled handler.
