package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gridlock-game/gridlock/game/engine"
	"github.com/gridlock-game/gridlock/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gridlock Puzzle Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gridlock Puzzle Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push blocks, collect keys, and reach the exit (E) of each level. Levels
connect through a hub world; finishing a level returns you to the hub.

AVAILABLE TOOLS:
- game_state: Get current game state with a rendered grid
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- tick: Advance the simulation clock (creatures, balls, ice slides, conveyors)
- reset_game: Reset to the campaign start
- move_history: View past moves
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available campaigns
- game_instructions: Get comprehensive game instructions and rules
- describe_position: Get detailed info about every object on a grid cell

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional campaign selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the campaign config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the simulation clock. Creatures and bouncing balls move, ice and conveyors carry their occupants, explosions fade. Without ticks the level stands still between your moves.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"elapsed_ms": map[string]interface{}{
					"type":        "integer",
					"description": "Milliseconds of simulated time to advance (defaults to one movement interval)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the campaign start",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available campaign configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_position",
		Description: "Get detailed information about every object on a specific grid cell: type, passability, push weight, openable state. Useful before pushing a block into a cell you cannot identify from the rendered grid.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (1-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (1-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribePosition)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nCampaign: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Campaign: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert moves to string array
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkMoveResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if elapsed, ok := args["elapsed_ms"].(float64); ok {
		body["elapsed_ms"] = int(elapsed)
	}

	var result service.TickResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/tick", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Advanced simulation by %dms\n", result.ElapsedMs))
	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(formatEventLine(event))
		}
	} else {
		b.WriteString("Nothing happened\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Campaigns:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Levels: %d, starts at level %d\n\n",
			config.Name, config.ConfigID, config.Description, config.LevelCount, config.StartLevel)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎮 Gridlock Puzzle Game - Complete Instructions

GAME OBJECTIVE:
Guide the player (@) through a campaign of grid puzzles. Each level is
solved by reaching its exit (E), which returns you to the hub world where
the next level's entrance opens up.

GAME MECHANICS:
• Movement: one cell per move in a cardinal direction
• Pushing: walking into a pushable block shoves it ahead of you; chains
  of blocks push together as long as the destination is free
• Weight: light pushers cannot shove heavy blocks (a block with weight
  greater than yours stops you cold)
• Keys: push a key (K) onto a door (D) to unlock it
• Paint: push a paint blob (b/r/p) onto a paintable block to recolor it;
  two paint blobs pushed together mix into a new color
• Buttons: gates (G) open while enough buttons (o) are held down - park
  blocks on them
• Ice (I): stepping on ice slides you onward each simulation tick until
  you come off it; you cannot simply walk off an active ice tile
• Conveyors (T): like ice, but they carry you in the conveyor's own
  direction
• Teleporters (O): pairs share an identifier; stepping on one drops you
  on its twin
• Water (~): most things sink; rafts (=) float and become walkable once
  anchored in water
• Mines (*) explode on contact, creatures (C) and bouncing balls (%) are
  lethal to touch - dying leaves a grave (+) and ends the run

GRID LEGEND:
• @ - Player        • E - Exit          • e - Entrance
• B/R/Y/P - Blue/Red/Yellow/Purple blocks
• b/r/p - Paint blobs (push onto blocks or other paint)
• K - Key           • D/d - Door closed/open
• G/g - Gate closed/open                • o - Button
• I - Ice           • T - Conveyor      • O - Teleporter
• ~ - Water         • = - Raft          • * - Mine
• C - Creature      • % - Bouncing ball • + - Grave
• . - Empty floor

🤖 AI AGENTS - SUCCESS STRATEGIES:

⚠️ PUSH PLANNING (MOST COMMON FAILURE POINT):
A block pushed against a wall or a heavier block stays put - and so do
you. Before every push ask: what is in the cell BEYOND the block?
Blocks cannot be pulled; a block pushed into a corner is stuck forever.
Use describe_position on the destination cell when the rendered glyph is
ambiguous.

🕐 THE CLOCK MATTERS:
Creatures, bouncing balls, ice slides, and conveyor belts only act when
the simulation clock advances. Use the tick tool between moves when you
need the level to react - for example, to let a creature patrol out of
your way, or to ride an ice slide to its end.

🗺️ SYSTEMATIC LEVEL MAPPING:
- Read the rendered grid row by row before planning
- Locate the exit, every key/door pair, and every button/gate pair
- Note which blocks are heavy (B, P) versus light (Y) before pushing
- Mark one-way cells: ice, conveyors, and water crossings

🧩 ORDERING SUB-GOALS:
- Doors need their key BEFORE you can pass; plan the key's push path first
- Gates need buttons held down; count how many blocks you can spare
- A raft bridge is permanent once anchored - place rafts deliberately

🚨 CRITICAL PITFALLS TO AVOID:
- ❌ Pushing a block flush against a wall you later need it away from
- ❌ Stepping onto ice without checking where the slide ends
- ❌ Walking into water without a raft in place
- ❌ Forgetting that creatures move when the clock ticks
- ❌ Treating a closed gate (G) as permanent - find its buttons

MOVEMENT COMMANDS:
- up, down, left, right - single moves in cardinal directions
- bulk_move - execute a planned sequence; it stops at the first
  collision and tells you which move failed and why
- tick - advance the simulation clock

MOVE OUTCOMES:
- success: the player (and any pushed blocks) moved
- edge collision: the move would leave the grid
- object collision: a massive object (or an unpushable chain) is in the way
- movement blocked: an active ice or conveyor tile is holding you;
  advance the clock and let it carry you

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state and campaign configuration

Good luck untangling the grid! 🧩`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribePosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.Position{X: x, Y: y}
	if !state.Dimensions.Contains(pos) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Coordinates (%d, %d) are out of bounds. Grid is %dx%d (1-%d for x, 1-%d for y)",
			x, y, state.Dimensions.Width, state.Dimensions.Height,
			state.Dimensions.Width, state.Dimensions.Height)), nil
	}

	objects := state.ObjectsAt(pos)
	if len(objects) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Cell (%d, %d) is empty floor - safe to walk or push into.", x, y)), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cell (%d, %d) holds %d object(s):\n", x, y, len(objects)))
	for _, obj := range objects {
		b.WriteString(describeObject(obj))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// describeObject renders one object's attributes for the describe tool.
func describeObject(obj *engine.Object) string {
	var traits []string

	if obj.Player {
		traits = append(traits, "this is you")
	}
	if obj.Massive && !obj.Open {
		traits = append(traits, "impassable")
	}
	if obj.Pushable {
		switch obj.Weight {
		case engine.WeightHeavy:
			traits = append(traits, "pushable (heavy - needs a heavy pusher)")
		default:
			traits = append(traits, "pushable (light)")
		}
	}
	if obj.Openable != engine.OpenableNone {
		openState := "closed"
		if obj.Open {
			openState = "open"
		}
		switch obj.Openable {
		case engine.OpenableKey:
			traits = append(traits, fmt.Sprintf("%s - opens when a key is pushed onto it", openState))
		case engine.OpenableTrigger:
			traits = append(traits, fmt.Sprintf("%s - opens while enough buttons are pressed", openState))
		case engine.OpenableLevelFinished:
			traits = append(traits, fmt.Sprintf("%s - opens once level %d is finished", openState, obj.Level))
		}
	}
	if obj.Deadly {
		traits = append(traits, "DEADLY on contact")
	}
	if obj.Explosive {
		traits = append(traits, "EXPLODES on contact")
	}
	if obj.Liquid {
		traits = append(traits, "liquid - sinks anything that cannot float")
	}
	if obj.Floatable {
		traits = append(traits, "floats on water")
	}
	if obj.Slippery {
		traits = append(traits, fmt.Sprintf("slides its occupant (currently %s)", tileHoldState(obj)))
	}
	if obj.Transporter {
		traits = append(traits, fmt.Sprintf("carries its occupant %s (currently %s)",
			strings.ToLower(string(obj.Direction)), tileHoldState(obj)))
	}
	if obj.Teleporter {
		traits = append(traits, fmt.Sprintf("teleporter pair %d", obj.Identifier))
	}
	if obj.Key {
		traits = append(traits, "key - push onto a door to unlock it")
	}
	if obj.IsPaint() {
		traits = append(traits, fmt.Sprintf("paint - recolors paintable blocks to %s", obj.Paint))
	}
	if obj.Trigger {
		traits = append(traits, "button - held down by any massive object")
	}
	if obj.Exit {
		traits = append(traits, "level exit")
	}
	if obj.Entrance {
		traits = append(traits, fmt.Sprintf("entrance to level %d", obj.Level))
	}

	if len(traits) == 0 {
		traits = append(traits, "decorative")
	}
	return fmt.Sprintf("- %s [%s]: %s\n", obj.Type, objectGlyph(obj), strings.Join(traits, "; "))
}

func tileHoldState(obj *engine.Object) string {
	if obj.BlocksMovement == engine.BlocksMovementEnabled {
		return "holding - a regular move off it will report movement blocked"
	}
	return "released"
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCampaign: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	player := state.PlayerObject()
	if player != nil {
		result.WriteString(fmt.Sprintf("Level: %d | Position: (%d,%d) | Moves: %d | Finished levels: %d\n\n",
			state.CurrentLevel, player.Position.X, player.Position.Y,
			state.TotalMoves, len(state.FinishedLevels)))
	} else {
		result.WriteString(fmt.Sprintf("Level: %d | Moves: %d\n\n", state.CurrentLevel, state.TotalMoves))
	}

	result.WriteString(renderGrid(state))

	if player == nil {
		result.WriteString("\n💀 GAME OVER - the player was destroyed. Use reset_game to try again.")
	}

	return result.String()
}

// renderGrid draws the arena as one glyph per cell. When objects overlap
// (a block on a button, the player on ice) the highest-priority glyph
// wins.
func renderGrid(state *engine.GameState) string {
	var result strings.Builder

	for y := 1; y <= state.Dimensions.Height; y++ {
		for x := 1; x <= state.Dimensions.Width; x++ {
			var top *engine.Object
			for _, obj := range state.ObjectsAt(engine.Position{X: x, Y: y}) {
				if top == nil || glyphPriority(obj) > glyphPriority(top) {
					top = obj
				}
			}
			if top == nil {
				result.WriteString(".")
			} else {
				result.WriteString(objectGlyph(top))
			}
		}
		result.WriteString("\n")
	}

	return result.String()
}

// glyphPriority orders overlapping objects: the player above everything,
// movers and blocks above the tiles they stand on.
func glyphPriority(obj *engine.Object) int {
	switch {
	case obj.Player:
		return 4
	case obj.Volatile:
		return 3
	case obj.Pushable || obj.Deadly || obj.Massive:
		return 2
	case obj.Floatable:
		return 1
	default:
		return 0
	}
}

func objectGlyph(obj *engine.Object) string {
	switch obj.Type {
	case engine.Player:
		return "@"
	case engine.BlueBlock:
		return "B"
	case engine.RedBlock:
		return "R"
	case engine.YellowBlock:
		return "Y"
	case engine.PurpleBlock:
		return "P"
	case engine.BluePaint:
		return "b"
	case engine.RedPaint:
		return "r"
	case engine.PurplePaint:
		return "p"
	case engine.Key:
		return "K"
	case engine.Door:
		if obj.Open {
			return "d"
		}
		return "D"
	case engine.Gate:
		if obj.Open {
			return "g"
		}
		return "G"
	case engine.Button:
		return "o"
	case engine.Ice:
		return "I"
	case engine.Transporter:
		return "T"
	case engine.Teleporter:
		return "O"
	case engine.Water:
		return "~"
	case engine.Raft:
		return "="
	case engine.Mine:
		return "*"
	case engine.Grave:
		return "+"
	case engine.Creature:
		return "C"
	case engine.BouncingBall:
		return "%"
	case engine.Exit:
		return "E"
	case engine.Entrance:
		return "e"
	case engine.Explosion:
		return "x"
	case engine.Flash:
		return "!"
	case engine.Splash:
		return "s"
	default:
		return "?"
	}
}

func formatEventLine(event engine.Event) string {
	switch event.Kind {
	case engine.EventSpawn:
		return fmt.Sprintf("- %s appeared at (%d,%d)\n", event.Type, event.Position.X, event.Position.Y)
	case engine.EventDespawn:
		return fmt.Sprintf("- %s removed from (%d,%d)\n", event.Type, event.Position.X, event.Position.Y)
	case engine.EventLevelFinished:
		return fmt.Sprintf("- level %d finished\n", event.Level)
	case engine.EventEnterLevel:
		return fmt.Sprintf("- entering level %d\n", event.Level)
	default:
		return fmt.Sprintf("- %s\n", event.Kind)
	}
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Move successful\n"
	} else {
		response = fmt.Sprintf("✗ Move failed: %s\n", result.Outcome)
	}

	response += fmt.Sprintf("Position: (%d,%d)→(%d,%d)\n",
		result.From.X, result.From.Y, result.To.X, result.To.Y)

	if result.LevelFinished {
		response += "🎉 Level finished! Back in the hub.\n"
	}
	if !result.PlayerAlive {
		response += "💀 The player was destroyed.\n"
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += formatEventLine(event)
		}
	}

	if len(result.PossibleMoves) > 0 {
		response += "Possible moves: " + strings.Join(result.PossibleMoves, ",") + "\n"
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	level := uint16(0)
	if result.GameState != nil {
		level = result.GameState.CurrentLevel
	}
	b.WriteString(fmt.Sprintf("Session: %s • Level: %d\n", sessionID, level))

	b.WriteString(fmt.Sprintf("Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped on move %d: %s (%s)\n",
			result.StoppedOnMove, result.StoppedReason, result.StopReasonCode))
	}
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated: only the first %d moves of the request were considered\n", result.Limit))
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			status := "✗"
			if s.Success {
				status = "✓"
			}
			b.WriteString(fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) %s %s\n",
				s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.Outcome, status))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(formatEventLine(event))
		}
	}

	if !result.PlayerAlive {
		b.WriteString("\n💀 The player was destroyed.\n")
	}
	if len(result.PossibleMoves) > 0 {
		b.WriteString("\nPossible moves: " + strings.Join(result.PossibleMoves, ",") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) - Total moves: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if move.Outcome != "success" {
			status = "✗"
		}
		result += fmt.Sprintf("%d. %s %s (%d,%d)→(%d,%d) [%s]\n",
			move.MoveNumber, strings.ToLower(string(move.Direction)), status,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y, move.Outcome)
	}

	return result
}
