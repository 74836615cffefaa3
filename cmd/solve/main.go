// Command solve searches for a move sequence that finishes a level.
//
// It runs the real engine against cloned game states, so pushes, keys,
// paint, ice slides, transporters, teleporters and hazards all behave
// exactly as they do in play. Time-driven behaviors (slides, creatures,
// balls) are advanced between player moves until the arena settles, so
// the search models a player who waits out each reaction before moving
// again.
//
// Usage:
//
//	solve -config campaign -level 1
//	solve -config campaign -all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gridlock-game/gridlock/game/config"
	"github.com/gridlock-game/gridlock/game/engine"
)

// maxSettleTicks bounds the reaction phase after each move; a slide
// across the widest possible grid settles well within this.
const maxSettleTicks = 128

type solver struct {
	config    *engine.GameConfig
	level     uint16
	maxDepth  int
	maxStates int

	// stepConfig holds only the target level so the engine built for
	// each expansion does not re-parse the whole level set.
	stepConfig     *engine.GameConfig
	settleInterval time.Duration
}

type searchNode struct {
	state *engine.GameState
	moves []engine.Direction
}

func main() {
	configDir := flag.String("config-dir", "configs", "directory containing game configs")
	configName := flag.String("config", "campaign", "config to load (filename without .json)")
	level := flag.Int("level", -1, "level to solve (default: the config's start level)")
	all := flag.Bool("all", false, "solve every level in the config that has an exit")
	maxDepth := flag.Int("max-depth", 80, "maximum solution length")
	maxStates := flag.Int("max-states", 500000, "maximum states to explore per level")
	flag.Parse()

	manager, err := config.NewManager(*configDir)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	cfg, err := manager.LoadConfig(*configName)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	levels := targetLevels(cfg, *level, *all)
	if len(levels) == 0 {
		log.Fatalf("❌ no solvable levels selected (levels without an exit are skipped)")
	}

	failed := false
	for _, number := range levels {
		s := &solver{config: cfg, level: number, maxDepth: *maxDepth, maxStates: *maxStates}
		if !s.run() {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// targetLevels resolves the -level/-all flags into the list of levels
// to solve, skipping levels with no exit (hub levels cannot be
// "finished", only left through an entrance).
func targetLevels(cfg *engine.GameConfig, level int, all bool) []uint16 {
	if !all {
		number := cfg.StartLevel
		if level >= 0 {
			number = uint16(level)
		}
		if _, ok := cfg.Levels[number]; !ok {
			return nil
		}
		return []uint16{number}
	}

	var numbers []uint16
	for number, raw := range cfg.Levels {
		if levelHasExit(raw) {
			numbers = append(numbers, number)
		}
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

func levelHasExit(raw string) bool {
	state := engine.NewGameState(engine.LoadLevel(raw), 0)
	for _, obj := range state.Objects {
		if obj.Exit {
			return true
		}
	}
	return false
}

// run solves one level and prints the result. Returns false when no
// solution was found within the search limits.
func (s *solver) run() bool {
	log.Printf("🔍 Level %d: searching (max depth %d, max states %d)", s.level, s.maxDepth, s.maxStates)

	start := time.Now()
	moves, explored, err := s.solve()
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		log.Printf("❌ Level %d: %v (%d states, %s)", s.level, err, explored, elapsed)
		return false
	}

	log.Printf("✅ Level %d: solved in %d moves (%d states, %s)", s.level, len(moves), explored, elapsed)
	fmt.Printf("level %d: %s\n", s.level, formatMoves(moves))
	return true
}

// solve runs a breadth-first search over game states, so the first
// solution found is also the shortest.
func (s *solver) solve() ([]engine.Direction, int, error) {
	if err := s.prepare(); err != nil {
		return nil, 0, err
	}

	initial, err := s.initialState()
	if err != nil {
		return nil, 0, err
	}
	if initial.FinishedLevels[s.level] {
		return nil, 0, nil
	}

	visited := map[string]bool{stateKey(initial): true}
	queue := []searchNode{{state: initial}}
	explored := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		explored++

		if explored > s.maxStates {
			return nil, explored, fmt.Errorf("no solution within %d states", s.maxStates)
		}
		if len(current.moves) >= s.maxDepth {
			continue
		}

		for _, direction := range engine.Directions {
			next, solved, ok := s.step(current.state, direction)
			if !ok {
				continue
			}

			moves := append(append([]engine.Direction{}, current.moves...), direction)
			if solved {
				return moves, explored, nil
			}

			key := stateKey(next)
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, searchNode{state: next, moves: moves})
		}
	}

	return nil, explored, fmt.Errorf("no solution within depth %d", s.maxDepth)
}

// prepare builds a config holding only the target level and picks the
// settle tick period: the larger of the two repeat intervals, so every
// settle tick fires both the transporter and the movement timer.
func (s *solver) prepare() error {
	raw, ok := s.config.Levels[s.level]
	if !ok {
		return fmt.Errorf("level %d not in config %q", s.level, s.config.Name)
	}

	s.stepConfig = &engine.GameConfig{
		Name:                  s.config.Name,
		Levels:                map[uint16]string{s.level: raw},
		StartLevel:            s.level,
		MovementIntervalMs:    s.config.MovementIntervalMs,
		TransporterIntervalMs: s.config.TransporterIntervalMs,
		VolatileDelayMs:       s.config.VolatileDelayMs,
	}

	movement := s.config.MovementIntervalMs
	if movement <= 0 {
		movement = engine.DefaultMovementIntervalMs
	}
	transporter := s.config.TransporterIntervalMs
	if transporter <= 0 {
		transporter = engine.DefaultTransporterIntervalMs
	}
	interval := movement
	if transporter > interval {
		interval = transporter
	}
	s.settleInterval = time.Duration(interval) * time.Millisecond

	return engine.ValidateGameConfig(s.stepConfig)
}

// initialState loads the level and settles any reactions the starting
// layout already implies.
func (s *solver) initialState() (*engine.GameState, error) {
	eng, err := engine.NewEngine(s.stepConfig)
	if err != nil {
		return nil, err
	}
	s.settle(eng)
	if state := eng.GetState(); state.FinishedLevels[s.level] {
		return state, nil
	}
	if eng.CurrentLevel() != s.level {
		return nil, fmt.Errorf("level %d transitions away before any move", s.level)
	}
	return eng.GetState(), nil
}

// step applies one player move to a copy of the state and settles the
// reactions it causes. ok is false when the move is blocked or kills
// the player; solved is true when the move finishes the level.
func (s *solver) step(state *engine.GameState, direction engine.Direction) (next *engine.GameState, solved, ok bool) {
	eng, err := engine.NewEngine(s.stepConfig)
	if err != nil {
		return nil, false, false
	}
	if err := eng.SetState(state.Clone()); err != nil {
		return nil, false, false
	}
	if err := eng.MovePlayer(direction); err != nil {
		return nil, false, false
	}

	s.settle(eng)

	result := eng.GetState()
	if result.FinishedLevels[s.level] {
		return result, true, true
	}
	if eng.CurrentLevel() != s.level {
		// Left through an entrance without finishing; not a solution.
		return nil, false, false
	}
	if result.PlayerObject() == nil {
		return nil, false, false
	}
	return result, false, true
}

// settle advances the clock until the arena stops changing: slides run
// to completion, contact reactions fire, creatures and balls take the
// steps the elapsed time grants them.
func (s *solver) settle(eng *engine.GameEngine) {
	previous := stateKey(eng.GetState())
	for i := 0; i < maxSettleTicks; i++ {
		eng.Tick(s.settleInterval)
		if eng.CurrentLevel() != s.level {
			return
		}
		key := stateKey(eng.GetState())
		if key == previous {
			return
		}
		previous = key
	}
}

// stateKey serializes the parts of a state the search cares about:
// which objects exist, where they are, which way they face, and
// whether openables are open. Objects are sorted by ID so the key is
// independent of slice order.
func stateKey(state *engine.GameState) string {
	objects := make([]*engine.Object, len(state.Objects))
	copy(objects, state.Objects)
	sort.Slice(objects, func(i, j int) bool { return objects[i].ID < objects[j].ID })

	var b strings.Builder
	for _, obj := range objects {
		fmt.Fprintf(&b, "%d:%s:%d,%d:%s:%t;", obj.ID, obj.Type, obj.Position.X, obj.Position.Y, obj.Direction, obj.Open)
	}
	return b.String()
}

func formatMoves(moves []engine.Direction) string {
	if len(moves) == 0 {
		return "(already solved)"
	}
	parts := make([]string, len(moves))
	for i, move := range moves {
		parts[i] = strings.ToLower(string(move))
	}
	return strings.Join(parts, " ")
}
