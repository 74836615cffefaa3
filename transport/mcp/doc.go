// Package mcp provides a Model Context Protocol server for the Gridlock
// puzzle game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with a rendered grid
//   - move: Execute single directional movement
//   - bulk_move: Execute multiple moves in sequence
//   - tick: Advance the simulation clock (creatures, balls, slides)
//   - reset_game: Reset to the campaign start
//   - move_history: Retrieve move history with pagination
//   - create_session: Create new game session with campaign selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available campaign configurations
//   - game_instructions: Full rules and strategy notes
//   - describe_position: Attribute breakdown of every object on a cell
//
// Architecture:
//
// The client is a thin proxy: every tool call translates into a REST
// call against the API server, so the MCP surface and the HTTP surface
// can never disagree about game rules. Tool responses render the game
// state as an ASCII grid so agents can reason about the level without a
// second request.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
