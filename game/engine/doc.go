// Package engine provides the core simulation for the Gridlock puzzle
// game.
//
// The engine package implements the game mechanics including:
//   - Grid-based movement with push chains and weight limits
//   - Attribute-driven object behaviors (paint, keys, triggers,
//     teleporters, liquids, explosives)
//   - Forced movement from slippery and transporter tiles
//   - Autonomous movers (bouncing, wall-following)
//   - Level loading, saving, and transitions between levels
//   - Derived events for presentation layers
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the object arena and the
// counters retained across ticks. GameConfig names the level set a
// session runs; levels themselves are plain text parsed by LoadLevel.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the player, then advance the simulation
//	err = gameEngine.MovePlayer(engine.Up)
//	events := gameEngine.Tick(16 * time.Millisecond)
//
// Game Rules:
//
// Players push blocks, paint and mix colors, collect keys, press
// triggers, and ride teleporters and rafts to reach each level's exit.
// Objects are bundles of independent attributes; all rules dispatch on
// attributes, never on concrete object types, so level designers can
// combine behaviors freely.
//
// The simulation advances in ticks. A move resolves synchronously; its
// consequences (a pushed paint hitting a block, the player stepping on a
// mine) resolve on the following tick, driven by per-object change
// tracking. Every mutation within a tick is atomic: a failed move leaves
// no partial state behind.
package engine
