package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/hex"
	"github.com/wricardo/hexcorridor/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Hex Corridor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hex Corridor - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Destroy the opposing fortress. Two players place unit cards on their own
spawn edge of a hex corridor, then move and attack toward the far side.

AVAILABLE TOOLS:
- create_session / list_sessions / get_session: session management
- game_state: board, fortresses, units and hands
- legal_actions: every legal action, or one card's spawn/move/attack targets
- place_card, select_card, move_unit, attack_unit, attack_fortress, end_turn
- reset_match: start a fresh match in the same session
- action_history: the ordered action log
- list_configs: available corridor configurations
- describe_tile: details of one hex
- game_instructions: full rules

player_id is optional on action tools; it defaults to the player whose turn it is.`),
	)

	// Register all tools
	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func playerProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{string(engine.Player1), string(engine.Player2)},
		"description": "Acting player (defaults to the current player)",
	}
}

func coordinateProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("Axial %s coordinate of the target hex", axis),
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new match session with optional config and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for a reproducible board (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active match sessions",
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
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Match state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current match state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_actions",
		Description: "List legal actions for the current player, or the spawn/move/attack targets of one card",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"card_id": map[string]interface{}{
					"type":        "string",
					"description": "Card to compute target sets for (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleLegalActions)

	// Actions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_card",
		Description: "Place a hand card on an open hex of your own spawn edge",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
				"card_id": map[string]interface{}{
					"type":        "string",
					"description": "Hand card to place",
				},
				"q": coordinateProperty("q"),
				"r": coordinateProperty("r"),
			},
			Required: []string{"session_id", "card_id", "q", "r"},
		},
	}, c.handlePlaceCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_card",
		Description: "Select one of your cards (on-board selection toggles)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
				"card_id": map[string]interface{}{
					"type":        "string",
					"description": "Card to select",
				},
			},
			Required: []string{"session_id", "card_id"},
		},
	}, c.handleSelectCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_unit",
		Description: "Move a unit to an empty hex within its speed. Entering the enemy spawn edge sacrifices the unit against their fortress.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
				"card_id": map[string]interface{}{
					"type":        "string",
					"description": "Unit to move (selected automatically)",
				},
				"q": coordinateProperty("q"),
				"r": coordinateProperty("r"),
			},
			Required: []string{"session_id", "card_id", "q", "r"},
		},
	}, c.handleMoveUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attack_unit",
		Description: "Attack an enemy unit within range. The unit with more hit points survives and takes the loser's hex.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
				"attacker_id": map[string]interface{}{
					"type":        "string",
					"description": "Attacking unit (selected automatically)",
				},
				"q": coordinateProperty("q"),
				"r": coordinateProperty("r"),
			},
			Required: []string{"session_id", "attacker_id", "q", "r"},
		},
	}, c.handleAttackUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attack_fortress",
		Description: "Attack the enemy fortress with a unit whose range reaches it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
				"attacker_id": map[string]interface{}{
					"type":        "string",
					"description": "Attacking unit (selected automatically)",
				},
			},
			Required: []string{"session_id", "attacker_id"},
		},
	}, c.handleAttackFortress)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"player_id":  playerProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_match",
		Description: "Start a fresh match in the same session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the action log for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
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
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available corridor configurations",
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
		Name:        "describe_tile",
		Description: "Get details about one hex: reveal state, reward, terrain, occupant and distance to each fortress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"q":          coordinateProperty("q"),
				"r":          coordinateProperty("r"),
			},
			Required: []string{"session_id", "q", "r"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
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

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func positionArg(args map[string]interface{}) (*hex.Position, error) {
	q, okQ := intArg(args, "q")
	r, okR := intArg(args, "r")
	if !okQ || !okR {
		return nil, fmt.Errorf("q and r are required")
	}
	pos := hex.New(q, r)
	return &pos, nil
}

// actingPlayer returns player_id, or the current player when it is omitted
func (c *Client) actingPlayer(sessionID string, args map[string]interface{}) (engine.Player, error) {
	if player, _ := args["player_id"].(string); player != "" {
		return engine.Player(player), nil
	}
	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return "", err
	}
	return state.CurrentPlayer, nil
}

// submit posts one action with auto-selection and renders the outcome
func (c *Client) submit(sessionID string, action engine.Action) (*mcp.CallToolResult, error) {
	req := service.ActionRequest{Action: action, AutoSelect: true}

	var result service.ActionResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/actions"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(action, &result)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := intArg(args, "seed"); ok && seed != 0 {
		body["seed"] = seed
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n", session.ID, session.ConfigName, session.Seed)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
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

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := fmt.Sprintf("turn %d, %s to act", s.Summary.TurnCount, s.Summary.CurrentPlayer)
		if s.Summary.Winner != "" {
			status = fmt.Sprintf("won by %s", s.Summary.Winner)
		}
		fmt.Fprintf(&result, "- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleLegalActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, _ := args["card_id"].(string)

	path := sessionPath(sessionID, "/legal")
	if cardID != "" {
		path += "?card_id=" + url.QueryEscape(cardID)
	}

	var legal service.LegalResponse
	if err := c.apiCall("GET", path, nil, &legal); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLegal(&legal)), nil
}

func (c *Client) handlePlaceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, _ := args["card_id"].(string)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewPlaceCard(player, cardID, *pos))
}

func (c *Client) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, _ := args["card_id"].(string)

	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewSelectCard(player, cardID))
}

func (c *Client) handleMoveUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, _ := args["card_id"].(string)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewMoveUnit(player, cardID, *pos))
}

func (c *Client) handleAttackUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	attackerID, _ := args["attacker_id"].(string)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewAttackUnit(player, attackerID, *pos))
}

func (c *Client) handleAttackFortress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	attackerID, _ := args["attacker_id"].(string)

	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewAttackFortress(player, attackerID, player.Opponent()))
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	player, err := c.actingPlayer(sessionID, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.submit(sessionID, engine.NewEndTurn(player))
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", sessionPath(sessionID, "/reset"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	params.Set("order", "asc")
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", sessionPath(sessionID, "/history?"+params.Encode()), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Corridor: %dx%d, Fortress: %d HP, Hand: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.CorridorLength, config.CorridorWidth, config.FortressHitPoints, config.HandSize)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Hex Corridor - Complete Instructions

GAME OBJECTIVE:
Bring the enemy fortress to 0 hit points. player1 defends the left end of the
corridor, player2 the right end.

THE BOARD:
A corridor of hexes in axial coordinates: q runs from 0 (left) to length-1
(right), r from 0 to width-1. Column q=0 is player1's spawn edge, the last
column is player2's. Distance between hexes is the axial hex distance. A
fortress counts as a virtual hex just outside its edge (q=-1 or q=length) on
the same row as the unit asking.

BOARD LEGEND (game_state):
  1 / 2  unit of player1 / player2
  #      unrevealed hex
  +      revealed hex with an uncollected reward
  .      revealed empty hex

TURN STRUCTURE:
• On your turn you may act with every unit that has 1 AP, in any order
• Units placed this turn have 0 AP; they act from your next turn
• END_TURN gives 1 AP to every unit of the next player
• If you have no legal action left, the server ends your turn automatically

ACTIONS:
• place_card: put a hand card on an empty hex of your own spawn edge
• move_unit: move to an empty hex within speed. Entering an unrevealed hex
  reveals it; a reward there joins your hand as a new card
• Fortress rush: moving onto the ENEMY spawn edge removes your unit and deals
  its current HP to the enemy fortress
• attack_unit: target an enemy within range. Hit points are compared:
  - higher HP survives with the difference and takes the loser's hex
  - the loser's fortress takes the loser's original HP as damage
  - a tie removes both and only the defender's fortress is damaged
• attack_fortress: if the enemy fortress is within range, deal your unit's HP
  to it; the unit stays where it is

REWARDS:
Every 3rd turn up to 2 revealed, empty, reward-free hexes receive a fresh
reward.

VICTORY CONDITIONS:
1. Both fortresses fall together: higher remaining HP wins, a tie goes to the
   player whose action caused it
2. One fortress falls: its owner loses
3. A player with no units on the board and none in hand loses

STRATEGY TIPS:
• Call legal_actions before acting; it lists exactly what will be accepted
• A strong unit on the enemy edge row is worth its full HP as fortress damage
• Exploring the middle of the corridor finds the strongest rewards
• Keep something in hand or on board; an empty army loses immediately

Good luck holding the corridor!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeTile(&state, *pos)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nMatch: %s (seed %d)\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.MatchID, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatPosition(p *hex.Position) string {
	if p == nil {
		return "hand"
	}
	return fmt.Sprintf("(%d,%d)", p.Q, p.R)
}

func formatCard(c engine.Card) string {
	return fmt.Sprintf("%s %s HP %d/%d SPD %d RNG %d AP %d at %s",
		c.ID, c.Name, c.HitPoints, c.MaxHitPoints, c.Speed, c.Range, c.AP, formatPosition(c.Position))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Turn: %d | Current: %s | Phase: %s\n",
		state.TurnCount, state.CurrentPlayer, state.Phase)
	fmt.Fprintf(&result, "Fortress player1: %d/%d | Fortress player2: %d/%d\n",
		state.Fortresses.Player1.DisplayHitPoints(), state.Fortresses.Player1.MaxHitPoints,
		state.Fortresses.Player2.DisplayHitPoints(), state.Fortresses.Player2.MaxHitPoints)
	if state.SelectedCardID != "" {
		fmt.Fprintf(&result, "Selected: %s\n", state.SelectedCardID)
	}
	result.WriteString("\n")

	if state.CorridorLength > 0 && state.CorridorWidth > 0 {
		for _, line := range engine.RenderBoard(state) {
			result.WriteString(line + "\n")
		}
		result.WriteString("\n")
	}

	for _, player := range []engine.Player{engine.Player1, engine.Player2} {
		board := state.Board(player)
		hand := state.Hand(player)
		fmt.Fprintf(&result, "%s board (%d):\n", player, len(board))
		for _, c := range board {
			result.WriteString("  " + formatCard(c) + "\n")
		}
		fmt.Fprintf(&result, "%s hand (%d):\n", player, len(hand))
		for _, c := range hand {
			result.WriteString("  " + formatCard(c) + "\n")
		}
	}

	if state.Winner != "" {
		fmt.Fprintf(&result, "\n🏆 WINNER: %s", state.Winner)
	}

	return result.String()
}

func formatActionResult(action engine.Action, result *service.ActionResult) string {
	var b strings.Builder

	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s accepted\n", action)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected: %s\n", action, result.Reason)
	}

	for _, event := range result.Events {
		if event.Message != "" {
			fmt.Fprintf(&b, "  • %s\n", event.Message)
		} else {
			fmt.Fprintf(&b, "  • %s\n", event.Type)
		}
	}
	if result.AutoEndTurn {
		b.WriteString("  • no legal actions left, the turn will end automatically\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatPositions(label string, positions []hex.Position) string {
	if len(positions) == 0 {
		return fmt.Sprintf("%s: none\n", label)
	}
	parts := make([]string, len(positions))
	for i := range positions {
		parts[i] = formatPosition(&positions[i])
	}
	return fmt.Sprintf("%s: %s\n", label, strings.Join(parts, " "))
}

func formatLegal(legal *service.LegalResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current player: %s (has legal action: %v)\n\n", legal.CurrentPlayer, legal.HasLegalAction)

	if legal.Card != nil {
		fmt.Fprintf(&b, "Card %s\n", legal.Card.CardID)
		b.WriteString(formatPositions("Spawn", legal.Card.Spawn))
		b.WriteString(formatPositions("Move", legal.Card.Move))
		b.WriteString(formatPositions("Attack", legal.Card.Attack))
		fmt.Fprintf(&b, "Can attack fortress: %v\n", legal.Card.CanAttackFortress)
		return b.String()
	}

	fmt.Fprintf(&b, "Legal actions (%d):\n", len(legal.Actions))
	for i, action := range legal.Actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, action)
	}
	return b.String()
}

func describeTile(state *engine.GameState, pos hex.Position) string {
	tile := state.TileAt(pos)
	if tile == nil {
		return fmt.Sprintf("Hex (%d,%d) is outside the %dx%d corridor (q 0-%d, r 0-%d)",
			pos.Q, pos.R, state.CorridorLength, state.CorridorWidth,
			state.CorridorLength-1, state.CorridorWidth-1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hex (%d,%d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", pos.Q, pos.R)

	switch pos.Q {
	case 0:
		b.WriteString("Zone: player1 spawn edge\n")
	case state.CorridorLength - 1:
		b.WriteString("Zone: player2 spawn edge\n")
	default:
		b.WriteString("Zone: corridor\n")
	}

	fmt.Fprintf(&b, "Revealed: %v\n", tile.IsRevealed)
	if tile.Terrain != "" {
		fmt.Fprintf(&b, "Terrain: %s\n", tile.Terrain)
	}
	switch {
	case !tile.IsRevealed:
		b.WriteString("Reward: hidden until a unit enters\n")
	case tile.HasUncollectedReward():
		fmt.Fprintf(&b, "Reward: %s (HP %d, SPD %d, RNG %d)\n",
			tile.Reward.Name, tile.Reward.HitPoints, tile.Reward.Speed, tile.Reward.Range)
	case tile.IsCollected:
		b.WriteString("Reward: collected\n")
	default:
		b.WriteString("Reward: none\n")
	}

	if card := state.CardAt(pos); card != nil {
		fmt.Fprintf(&b, "Occupant: %s's %s\n", card.Owner, formatCard(*card))
	} else {
		b.WriteString("Occupant: empty\n")
	}

	fmt.Fprintf(&b, "Distance to player1 fortress: %d\n", engine.DistanceToFortress(pos, engine.Player1, state.CorridorLength))
	fmt.Fprintf(&b, "Distance to player2 fortress: %d\n", engine.DistanceToFortress(pos, engine.Player2, state.CorridorLength))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, record := range history.Actions {
		status := "✓"
		if !record.Accepted {
			status = "✗ " + record.Reason
		}
		fmt.Fprintf(&b, "%d. [turn %d] %s %s\n", record.Sequence, record.TurnCount, record.Action, status)
	}

	return b.String()
}
