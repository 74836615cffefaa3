package main

import (
	"testing"

	"github.com/gridlock-game/gridlock/game/engine"
)

func testConfig(levels map[uint16]string, start uint16) *engine.GameConfig {
	return &engine.GameConfig{
		Name:       "solver-test",
		Levels:     levels,
		StartLevel: start,
	}
}

func TestSolveTrivialLevel(t *testing.T) {
	level := "[General]\nWidth=4\nHeight=3\n\n[Player]\nPosition=2,2\n\n[Exit]\nPosition=3,2\n"
	s := &solver{
		config:    testConfig(map[uint16]string{1: level}, 1),
		level:     1,
		maxDepth:  10,
		maxStates: 1000,
	}

	moves, _, err := s.solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(moves) != 1 || moves[0] != engine.Right {
		t.Errorf("expected single move right, got %v", moves)
	}
}

func TestSolvePushToExit(t *testing.T) {
	// The block between player and exit must be pushed ahead, then off
	// the exit tile.
	level := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=2,2\n\n[YellowBlock]\nPosition=3,2\n\n[Exit]\nPosition=4,2\n"
	s := &solver{
		config:    testConfig(map[uint16]string{1: level}, 1),
		level:     1,
		maxDepth:  20,
		maxStates: 10000,
	}

	moves, _, err := s.solve()
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(moves) != 2 {
		t.Errorf("expected 2 moves, got %d: %v", len(moves), moves)
	}
	for i, move := range moves {
		if move != engine.Right {
			t.Errorf("move %d: expected right, got %s", i, move)
		}
	}
}

func TestSolveWalledIn(t *testing.T) {
	// Player in the corner, sealed off from the exit.
	level := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=1,1\n\n[RedBlock]\nPosition=2,1;1,2;2,2\n\n[Exit]\nPosition=5,3\n"
	s := &solver{
		config:    testConfig(map[uint16]string{1: level}, 1),
		level:     1,
		maxDepth:  20,
		maxStates: 10000,
	}

	if _, _, err := s.solve(); err == nil {
		t.Error("expected no solution for a walled-in player")
	}
}

func TestStateKeyOrderIndependent(t *testing.T) {
	level := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=2,2\n\n[YellowBlock]\nPosition=3,2\n\n[Exit]\nPosition=4,2\n"
	state := engine.NewGameState(engine.LoadLevel(level), 1)

	reversed := state.Clone()
	for i, j := 0, len(reversed.Objects)-1; i < j; i, j = i+1, j-1 {
		reversed.Objects[i], reversed.Objects[j] = reversed.Objects[j], reversed.Objects[i]
	}

	if stateKey(state) != stateKey(reversed) {
		t.Error("state key should not depend on object slice order")
	}
}

func TestStateKeyDistinguishesPositions(t *testing.T) {
	level := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=2,2\n\n[Exit]\nPosition=4,2\n"
	state := engine.NewGameState(engine.LoadLevel(level), 1)

	moved := state.Clone()
	if err := moved.MovePlayer(engine.Right); err != nil {
		t.Fatalf("move: %v", err)
	}

	if stateKey(state) == stateKey(moved) {
		t.Error("state key should change when the player moves")
	}
}

func TestTargetLevels(t *testing.T) {
	hub := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=2,2\n\n[Entrance]\nLevel=1\nPosition=4,2\n"
	exitLevel := "[General]\nWidth=5\nHeight=3\n\n[Player]\nPosition=2,2\n\n[Exit]\nPosition=4,2\n"
	cfg := testConfig(map[uint16]string{0: hub, 1: exitLevel, 2: exitLevel}, 0)

	all := targetLevels(cfg, -1, true)
	if len(all) != 2 || all[0] != 1 || all[1] != 2 {
		t.Errorf("expected levels [1 2] with -all (hub has no exit), got %v", all)
	}

	single := targetLevels(cfg, 2, false)
	if len(single) != 1 || single[0] != 2 {
		t.Errorf("expected level [2], got %v", single)
	}

	fallback := targetLevels(cfg, -1, false)
	if len(fallback) != 1 || fallback[0] != 0 {
		t.Errorf("expected the start level [0], got %v", fallback)
	}

	if missing := targetLevels(cfg, 9, false); len(missing) != 0 {
		t.Errorf("expected no levels for a missing number, got %v", missing)
	}
}

func TestFormatMoves(t *testing.T) {
	got := formatMoves([]engine.Direction{engine.Up, engine.Right, engine.Down})
	if got != "up right down" {
		t.Errorf("formatMoves = %q", got)
	}
	if formatMoves(nil) != "(already solved)" {
		t.Errorf("formatMoves(nil) = %q", formatMoves(nil))
	}
}
