package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gridlock-game/gridlock/game/engine"
	"github.com/gridlock-game/gridlock/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// configFile is the on-disk shape of a configuration. Levels may be
// embedded as text or referenced as files relative to the config
// directory; level numbers are the map keys.
type configFile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartLevel            uint16 `json:"start_level"`
	MovementIntervalMs    int    `json:"movement_interval_ms,omitempty"`
	TransporterIntervalMs int    `json:"transporter_interval_ms,omitempty"`
	VolatileDelayMs       int    `json:"volatile_delay_ms,omitempty"`

	Levels     map[string]string `json:"levels,omitempty"`
	LevelFiles map[string]string `json:"level_files,omitempty"`
}

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config, err := m.resolve(&file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = config
	return config, nil
}

// resolve turns the on-disk shape into an engine config, reading any
// referenced level files.
func (m *Manager) resolve(file *configFile) (*engine.GameConfig, error) {
	config := &engine.GameConfig{
		Name:                  file.Name,
		Description:           file.Description,
		StartLevel:            file.StartLevel,
		MovementIntervalMs:    file.MovementIntervalMs,
		TransporterIntervalMs: file.TransporterIntervalMs,
		VolatileDelayMs:       file.VolatileDelayMs,
		Levels:                make(map[uint16]string),
	}

	for key, content := range file.Levels {
		number, err := parseLevelNumber(key)
		if err != nil {
			return nil, err
		}
		config.Levels[number] = content
	}

	for key, levelFile := range file.LevelFiles {
		number, err := parseLevelNumber(key)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(m.configDir, levelFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read level file %s: %w", levelFile, err)
		}
		config.Levels[number] = string(data)
	}

	return config, nil
}

func parseLevelNumber(key string) (uint16, error) {
	number, err := strconv.ParseUint(key, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid level number %q", key)
	}
	return uint16(number), nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		// Skip invalid configs
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			LevelCount:  len(config.Levels),
			StartLevel:  config.StartLevel,
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache reloads all cached configurations from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the default configuration: campaign.json when
// present, otherwise the first available config, otherwise a minimal
// built-in set.
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig("campaign")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			m.mu.Lock()
			m.defaultConfig = MinimalConfig()
			m.mu.Unlock()
			return nil
		}

		config, err = m.LoadConfig(configs[0].ConfigID)
		if err != nil {
			m.mu.Lock()
			m.defaultConfig = MinimalConfig()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a configuration to disk with its levels embedded
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	file := configFile{
		Name:                  config.Name,
		Description:           config.Description,
		StartLevel:            config.StartLevel,
		MovementIntervalMs:    config.MovementIntervalMs,
		TransporterIntervalMs: config.TransporterIntervalMs,
		VolatileDelayMs:       config.VolatileDelayMs,
		Levels:                make(map[string]string, len(config.Levels)),
	}
	for number, content := range config.Levels {
		file.Levels[strconv.Itoa(int(number))] = content
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// MinimalConfig returns the built-in single-level configuration used
// when no config directory is available.
func MinimalConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "default",
		Description: "Built-in default level",
		Levels: map[uint16]string{
			0: engine.DefaultLevel,
		},
	}
}
