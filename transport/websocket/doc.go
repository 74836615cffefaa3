// Package websocket provides real-time game state broadcasting for the
// Gridlock puzzle server.
//
// The Hub maintains WebSocket clients grouped by session ID. A new
// watcher receives a snapshot of the current arena on connect; after
// that, whenever the session's state changes (a move, a tick, a
// reset), the server pushes the new state plus the derived events that
// produced it to every client watching that session. Clients never
// send game commands over the socket; moves go through the REST API.
//
// Connection health uses the standard ping/pong keepalive: the server
// pings on a fixed period and drops connections that miss the pong
// deadline.
package websocket
