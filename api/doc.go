// Package api provides HTTP REST API handlers for the Gridlock puzzle
// server.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Configuration listing and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Execute a single move
//   - POST /api/sessions/{id}/bulk-move - Execute a move sequence
//   - POST /api/sessions/{id}/tick - Advance the simulation clock
//   - POST /api/sessions/{id}/reset - Reset to the start level
//   - GET /api/sessions/{id}/history - Get move history with pagination
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get a configuration
//   - POST /api/configs - Save a configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with a
// JSON body:
//
//	{
//	  "direction": "up|down|left|right",
//	  "reset": true|false            // optional reset before move
//	}
//
// Bulk moves carry "moves": ["up", "down", "left"] instead.
//
// Move responses include the outcome (success, edge collision, object
// collision, movement blocked), the start and end positions, the
// derived events that resolved as a consequence, and the currently
// possible moves.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
