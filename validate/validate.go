// Command validate provides a small CLI that validates campaign
// configuration JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Level numbering and that the start level exists
//   - Per-level content: exactly one player, a way out (exit or
//     entrance), positions inside the grid, paired teleporters
//   - Entrance targets reference levels that exist in the campaign
//   - Reachability: the exit can be reached from the player's start
//     position over cells that are not permanently impassable
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gridlock-game/gridlock/game/engine"
)

// Config mirrors the JSON schema for a campaign configuration.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartLevel            uint16 `json:"start_level"`
	MovementIntervalMs    int    `json:"movement_interval_ms,omitempty"`
	TransporterIntervalMs int    `json:"transporter_interval_ms,omitempty"`
	VolatileDelayMs       int    `json:"volatile_delay_ms,omitempty"`

	Levels     map[string]string `json:"levels,omitempty"`
	LevelFiles map[string]string `json:"level_files,omitempty"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single campaign JSON file. It
// performs structural checks, per-level content checks, cross-level
// entrance checks, and reachability analysis.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: name")
	}

	levels, levelErrs := collectLevels(&config, filepath.Dir(filePath))
	if len(levelErrs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, levelErrs...)
	}

	if len(levels) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Campaign has no levels")
		return result
	}

	if _, ok := levels[config.StartLevel]; !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("start_level %d is not in the level set", config.StartLevel))
	}

	if config.MovementIntervalMs < 0 || config.TransporterIntervalMs < 0 || config.VolatileDelayMs < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Timer intervals cannot be negative")
	}

	parsed := make(map[uint16]*engine.Level, len(levels))
	for number, content := range levels {
		parsed[number] = engine.LoadLevel(content)
	}

	for number, level := range parsed {
		for _, msg := range validateLevel(number, level) {
			result.Valid = false
			result.Errors = append(result.Errors, msg)
		}
	}

	// Entrances must lead somewhere that exists.
	for number, level := range parsed {
		for _, record := range level.Objects[engine.Entrance] {
			if _, ok := parsed[record.Level]; !ok {
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("Level %d: entrance at (%d,%d) targets missing level %d",
						number, record.Position.X, record.Position.Y, record.Level))
			}
		}
	}

	// Reachability analysis for levels that have an exit.
	if result.Valid {
		for number, level := range parsed {
			if msg := validateReachability(number, level); msg != "" {
				result.Valid = false
				result.Errors = append(result.Errors, msg)
			}
		}
	}

	// Add informational data
	if result.Valid {
		exits := 0
		teleporters := 0
		for _, level := range parsed {
			exits += len(level.Objects[engine.Exit])
			teleporters += len(level.Objects[engine.Teleporter])
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Levels: %d (start: %d)", len(parsed), config.StartLevel))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Exits: %d", exits))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Teleporters: %d", teleporters))
	}

	return result
}

// collectLevels merges embedded levels and referenced level files into
// one number-keyed set.
func collectLevels(config *Config, baseDir string) (map[uint16]string, []string) {
	levels := make(map[uint16]string)
	var errs []string

	for key, content := range config.Levels {
		number, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid level number %q", key))
			continue
		}
		levels[uint16(number)] = content
	}

	for key, file := range config.LevelFiles {
		number, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid level number %q", key))
			continue
		}
		data, err := os.ReadFile(filepath.Join(baseDir, file))
		if err != nil {
			errs = append(errs, fmt.Sprintf("Level %s: failed to read %s: %v", key, file, err))
			continue
		}
		levels[uint16(number)] = string(data)
	}

	return levels, errs
}

// validateLevel checks a single parsed level for structural problems.
func validateLevel(number uint16, level *engine.Level) []string {
	var errs []string

	dims := level.Dimensions
	if dims.Width < engine.MinGridSize || dims.Width > engine.MaxGridSize ||
		dims.Height < engine.MinGridSize || dims.Height > engine.MaxGridSize {
		errs = append(errs, fmt.Sprintf("Level %d: dimensions %dx%d out of range [%d,%d]",
			number, dims.Width, dims.Height, engine.MinGridSize, engine.MaxGridSize))
	}

	players := len(level.Objects[engine.Player])
	if players != 1 {
		errs = append(errs, fmt.Sprintf("Level %d: expected exactly 1 player, found %d", number, players))
	}

	if len(level.Objects[engine.Exit]) == 0 && len(level.Objects[engine.Entrance]) == 0 {
		errs = append(errs, fmt.Sprintf("Level %d: no exit and no entrance; the level cannot be left", number))
	}

	for objectType, records := range level.Objects {
		for _, record := range records {
			if !dims.Contains(record.Position) {
				errs = append(errs, fmt.Sprintf("Level %d: %s at (%d,%d) is outside the %dx%d grid",
					number, objectType, record.Position.X, record.Position.Y, dims.Width, dims.Height))
			}
		}
	}

	// Teleporters work in pairs sharing an identifier.
	pairCounts := make(map[uint16]int)
	for _, record := range level.Objects[engine.Teleporter] {
		pairCounts[record.Identifier]++
	}
	for identifier, count := range pairCounts {
		if count != 2 {
			errs = append(errs, fmt.Sprintf("Level %d: teleporter identifier %d appears %d times, expected 2",
				number, identifier, count))
		}
	}

	// Doors need a key somewhere in the level to ever open.
	closedDoors := 0
	for _, record := range level.Objects[engine.Door] {
		if !record.Open {
			closedDoors++
		}
	}
	if closedDoors > 0 && len(level.Objects[engine.Key]) == 0 {
		errs = append(errs, fmt.Sprintf("Level %d: %d closed door(s) but no keys", number, closedDoors))
	}

	return errs
}

// validateReachability flood-fills from the player's start position over
// cells that are not permanently impassable and reports an exit that can
// never be reached. Openables count as passable since they can open;
// water counts as impassable unless a raft starts on it.
func validateReachability(number uint16, level *engine.Level) string {
	players := level.Objects[engine.Player]
	exits := level.Objects[engine.Exit]
	if len(players) != 1 || len(exits) == 0 {
		return ""
	}

	blocked := make(map[engine.Position]bool)
	rafts := make(map[engine.Position]bool)
	for _, record := range level.Objects[engine.Raft] {
		rafts[record.Position] = true
	}

	for objectType, records := range level.Objects {
		for _, record := range records {
			obj := engine.NewObject(objectType, record)
			switch {
			case obj.Liquid && !rafts[record.Position]:
				blocked[record.Position] = true
			case obj.Massive && obj.Openable == engine.OpenableNone && !obj.Pushable:
				// Walls that never move or open.
				blocked[record.Position] = true
			}
		}
	}

	visited := make(map[engine.Position]bool)
	queue := []engine.Position{players[0].Position}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, direction := range engine.Directions {
			dx, dy := direction.Delta()
			next := engine.Position{X: current.X + dx, Y: current.Y + dy}
			if !level.Dimensions.Contains(next) || visited[next] || blocked[next] {
				continue
			}
			queue = append(queue, next)
		}
	}

	for _, exit := range exits {
		if visited[exit.Position] {
			return ""
		}
	}
	return fmt.Sprintf("Level %d: no exit is reachable from the player's start position", number)
}

// main scans ../configs for *.json files and validates each one, printing
// a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
