// Command analyze prints quick, human-readable heuristics about campaign
// files in the project's configs directory. For each level it summarizes
// dimensions, object counts, key/door and button/gate balances, and
// highlights suspicious layouts such as pushable blocks that start in
// corners where they can never be moved.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gridlock-game/gridlock/game/engine"
)

// AnalysisConfig is a light struct for reading campaign files used by
// analysis.
type AnalysisConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	StartLevel  uint16            `json:"start_level"`
	Levels      map[string]string `json:"levels"`
	LevelFiles  map[string]string `json:"level_files"`
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	for _, configFile := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(configFile))
		analyzeConfig(configFile)
	}
}

func analyzeConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var config AnalysisConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", config.Name)

	levels := make(map[uint16]string)
	for key, content := range config.Levels {
		if number, err := strconv.ParseUint(key, 10, 16); err == nil {
			levels[uint16(number)] = content
		}
	}
	for key, file := range config.LevelFiles {
		number, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(filepath.Dir(path), file))
		if err != nil {
			fmt.Printf("Error reading level file %s: %v\n", file, err)
			continue
		}
		levels[uint16(number)] = string(content)
	}

	fmt.Printf("Levels: %d (start: %d)\n", len(levels), config.StartLevel)

	numbers := make([]uint16, 0, len(levels))
	for number := range levels {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	for _, number := range numbers {
		fmt.Printf("\n--- Level %d ---\n", number)
		analyzeLevel(engine.LoadLevel(levels[number]))
	}
}

func analyzeLevel(level *engine.Level) {
	dims := level.Dimensions
	fmt.Printf("Grid: %d x %d\n", dims.Width, dims.Height)

	count := func(t engine.ObjectType) int { return len(level.Objects[t]) }

	totalObjects := 0
	for _, records := range level.Objects {
		totalObjects += len(records)
	}
	fmt.Printf("Objects: %d\n", totalObjects)

	// Key/door and button/gate balance
	keys, doors := count(engine.Key), count(engine.Door)
	if doors > 0 || keys > 0 {
		fmt.Printf("Keys/Doors: %d/%d\n", keys, doors)
		if keys < doors {
			fmt.Printf("⚠️  WARNING: %d door(s) can never open (only %d keys)\n", doors-keys, keys)
		}
	}

	buttons := count(engine.Button)
	triggerGates := 0
	for _, record := range level.Objects[engine.Gate] {
		if record.Level == 0 {
			triggerGates++
		}
	}
	if triggerGates > 0 || buttons > 0 {
		fmt.Printf("Buttons/Gates: %d/%d\n", buttons, triggerGates)
		if triggerGates > 0 && buttons == 0 {
			fmt.Printf("⚠️  WARNING: trigger gates present but no buttons\n")
		}
	}

	// Hazards
	hazards := count(engine.Mine) + count(engine.Creature) + count(engine.BouncingBall)
	if hazards > 0 {
		fmt.Printf("Hazards: %d (mines: %d, creatures: %d, balls: %d)\n",
			hazards, count(engine.Mine), count(engine.Creature), count(engine.BouncingBall))
	}

	// Water crossings
	water, rafts := count(engine.Water), count(engine.Raft)
	if water > 0 {
		fmt.Printf("Water cells: %d, rafts: %d\n", water, rafts)
		if rafts == 0 {
			fmt.Printf("   Note: water with no rafts is a pure wall\n")
		}
	}

	// Teleporter pairing
	pairs := make(map[uint16]int)
	for _, record := range level.Objects[engine.Teleporter] {
		pairs[record.Identifier]++
	}
	for identifier, n := range pairs {
		if n != 2 {
			fmt.Printf("⚠️  WARNING: teleporter identifier %d appears %d times (expected 2)\n", identifier, n)
		}
	}

	// Cornered blocks can never be pushed anywhere.
	cornered := corneredBlocks(level)
	if len(cornered) > 0 {
		fmt.Printf("⚠️  WARNING: %d pushable block(s) start in a corner and can never move:\n", len(cornered))
		for i, p := range cornered {
			if i < 5 {
				fmt.Printf("   Cornered: (%d, %d)\n", p.X, p.Y)
			}
		}
		if len(cornered) > 5 {
			fmt.Printf("   ... and %d more\n", len(cornered)-5)
		}
	}

	// Lower bound on the solution length.
	if players, exits := level.Objects[engine.Player], level.Objects[engine.Exit]; len(players) == 1 && len(exits) > 0 {
		best := -1
		for _, exit := range exits {
			d := manhattan(players[0].Position, exit.Position)
			if best == -1 || d < best {
				best = d
			}
		}
		fmt.Printf("Minimum moves to exit (straight-line bound): %d\n", best)
	}
}

// corneredBlocks returns the positions of pushable blocks that start in
// a grid corner. A block in a corner has walls on two adjacent sides, so
// no push can ever displace it.
func corneredBlocks(level *engine.Level) []engine.Position {
	dims := level.Dimensions
	isCorner := func(p engine.Position) bool {
		onVertical := p.X == 1 || p.X == dims.Width
		onHorizontal := p.Y == 1 || p.Y == dims.Height
		return onVertical && onHorizontal
	}

	var cornered []engine.Position
	for objectType, records := range level.Objects {
		sample := engine.NewObject(objectType, engine.InitialRecord{})
		if !sample.Pushable || !sample.Massive {
			continue
		}
		for _, record := range records {
			if isCorner(record.Position) {
				cornered = append(cornered, record.Position)
			}
		}
	}
	return cornered
}

func manhattan(a, b engine.Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
