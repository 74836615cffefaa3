// Package session provides session management for the puzzle server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Optional file-based persistence of game state
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session
// operations. Each session owns its own engine instance plus metadata
// like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookup is
// case-insensitive.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Persistence:
//
// NewManagerWithPersistence wires a SessionPersistence implementation
// (FilePersistence stores one JSON file per session). Sessions are
// auto-saved on creation and on demand, and lazily loaded back into
// memory on Get.
package session
