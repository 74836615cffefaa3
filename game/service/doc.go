// Package service provides the business logic layer for the Gridlock
// puzzle server.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Move processing and bulk move sequencing
//   - Simulation clock advancement
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages game configuration loading and
// validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/
// MCP) and the game engine, providing session isolation, configuration
// management, and business logic orchestration. Each session maintains
// its own game engine instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "campaign")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "up", false)
package service
