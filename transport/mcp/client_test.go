package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/hex"
	"github.com/wricardo/hexcorridor/game/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// testState is a 4x2 corridor with one unit per side and a card in each hand
func testState() *engine.GameState {
	state := &engine.GameState{
		MatchID:        "m-1",
		Phase:          engine.PhaseInProgress,
		CurrentPlayer:  engine.Player2,
		TurnCount:      3,
		CorridorLength: 4,
		CorridorWidth:  2,
		Fortresses: engine.Fortresses{
			Player1: engine.Fortress{Owner: engine.Player1, HitPoints: 2800, MaxHitPoints: 3000},
			Player2: engine.Fortress{Owner: engine.Player2, HitPoints: -50, MaxHitPoints: 3000},
		},
	}
	for q := 0; q < 4; q++ {
		for r := 0; r < 2; r++ {
			tile := engine.HexTile{Position: hex.New(q, r), IsRevealed: q == 0 || q == 3}
			if q == 1 && r == 0 {
				tile.IsRevealed = true
				tile.Reward = &engine.CardTemplate{Name: "Grass", HitPoints: 300, MaxHitPoints: 300, Speed: 1, Range: 1}
			}
			state.Tiles = append(state.Tiles, tile)
		}
	}
	p1 := hex.New(0, 1)
	p2 := hex.New(2, 1)
	state.Cards = []engine.Card{
		{ID: "a1", Owner: engine.Player1, Name: "Man", HitPoints: 200, MaxHitPoints: 200, Speed: 2, Range: 1, Position: &p1, AP: 1},
		{ID: "a2", Owner: engine.Player1, Name: "Mouse", HitPoints: 30, MaxHitPoints: 30, Speed: 2, Range: 1},
		{ID: "b1", Owner: engine.Player2, Name: "Grass", HitPoints: 300, MaxHitPoints: 300, Speed: 1, Range: 1, Position: &p2},
	}
	return state
}

// fakeAPI serves the REST endpoints the client proxies to and records
// submitted actions.
type fakeAPI struct {
	t       *testing.T
	state   *engine.GameState
	actions []service.ActionRequest
	paths   []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.paths = append(f.paths, r.Method+" "+r.URL.RequestURI())
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == "POST" && r.URL.Path == "/api/sessions":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		config, _ := body["config_id"].(string)
		seed, _ := body["seed"].(float64)
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "ab12", ConfigName: config, Seed: int64(seed), GameState: f.state})

	case r.URL.Path == "/api/sessions":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"sessions": []service.SessionInfo{
				{ID: "ab12", ConfigName: "classic", Summary: engine.Summarize(f.state)},
			},
		})

	case r.URL.Path == "/api/sessions/missing/state":
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})

	case strings.HasSuffix(r.URL.Path, "/state"):
		json.NewEncoder(w).Encode(f.state)

	case strings.HasSuffix(r.URL.Path, "/actions"):
		var req service.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("Failed to decode action: %v", err)
		}
		f.actions = append(f.actions, req)
		result := service.ActionResult{Accepted: true, GameState: f.state, Events: []engine.Event{{Type: engine.EventTurnEnded, Message: "turn passed"}}}
		if req.PlayerID != f.state.CurrentPlayer {
			result = service.ActionResult{Accepted: false, Reason: "rejected: not your turn", GameState: f.state}
		}
		json.NewEncoder(w).Encode(result)

	case strings.HasSuffix(r.URL.Path, "/legal"):
		resp := service.LegalResponse{CurrentPlayer: f.state.CurrentPlayer, HasLegalAction: true}
		if cardID := r.URL.Query().Get("card_id"); cardID != "" {
			sets := engine.LegalSetsFor(f.state, cardID)
			resp.Card = &sets
		} else {
			resp.Actions = engine.LegalActions(f.state)
		}
		json.NewEncoder(w).Encode(resp)

	case strings.HasSuffix(r.URL.Path, "/history"):
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Actions: []engine.ActionRecord{
				{Sequence: 1, Action: engine.NewEndTurn(engine.Player1), TurnCount: 1, Accepted: true},
				{Sequence: 2, Action: engine.NewEndTurn(engine.Player1), TurnCount: 2, Reason: "rejected: not your turn"},
			},
			TotalActions: 2,
			Page:         1,
			PageSize:     20,
			TotalPages:   1,
		})

	case r.URL.Path == "/api/configs":
		json.NewEncoder(w).Encode([]service.ConfigInfo{
			{ConfigID: "skirmish", Name: "skirmish", Description: "Short fight", CorridorLength: 6, CorridorWidth: 3, FortressHitPoints: 1000, HandSize: 3},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	api := &fakeAPI{t: t, state: testState()}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, NewClient(server.URL + "/")
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	_, client := newFakeAPI(t)

	var state engine.GameState
	if err := client.apiCall("GET", "/api/sessions/ab12/state", nil, &state); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if state.MatchID != "m-1" {
		t.Errorf("Expected match m-1, got %s", state.MatchID)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	_, client := newFakeAPI(t)

	err := client.apiCall("GET", "/api/sessions/missing/state", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected the server's error message, got %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	_, client := newFakeAPI(t)

	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"config_id": "skirmish",
		"seed":      float64(7),
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created session: ab12", "Config: skirmish", "Seed: 7"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_listSessions(t *testing.T) {
	_, client := newFakeAPI(t)

	result, _ := client.handleListSessions(context.Background(), callRequest("list_sessions", nil))
	text := resultText(t, result)

	if !strings.Contains(text, "Active Sessions (1)") || !strings.Contains(text, "turn 3, player2 to act") {
		t.Errorf("Unexpected session listing: %s", text)
	}
}

func TestClient_actions(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		args   map[string]interface{}
		handle func(*Client, context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		check  func(*testing.T, service.ActionRequest)
	}{
		{
			name:   "place card",
			tool:   "place_card",
			args:   map[string]interface{}{"session_id": "ab12", "card_id": "c9", "q": float64(3), "r": float64(0)},
			handle: (*Client).handlePlaceCard,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionPlaceCard || req.Position == nil || *req.Position != hex.New(3, 0) {
					t.Errorf("Unexpected placement %+v", req.Action)
				}
			},
		},
		{
			name:   "select card",
			tool:   "select_card",
			args:   map[string]interface{}{"session_id": "ab12", "card_id": "b1"},
			handle: (*Client).handleSelectCard,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionSelectCard || req.CardID != "b1" {
					t.Errorf("Unexpected selection %+v", req.Action)
				}
			},
		},
		{
			name:   "move unit is auto-selected",
			tool:   "move_unit",
			args:   map[string]interface{}{"session_id": "ab12", "card_id": "b1", "q": float64(1), "r": float64(1)},
			handle: (*Client).handleMoveUnit,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionMoveUnit || !req.AutoSelect {
					t.Errorf("Unexpected move %+v", req)
				}
			},
		},
		{
			name:   "attack unit",
			tool:   "attack_unit",
			args:   map[string]interface{}{"session_id": "ab12", "attacker_id": "b1", "q": float64(0), "r": float64(1)},
			handle: (*Client).handleAttackUnit,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionAttackUnit || req.AttackerID != "b1" {
					t.Errorf("Unexpected attack %+v", req.Action)
				}
			},
		},
		{
			name:   "attack fortress targets the opponent",
			tool:   "attack_fortress",
			args:   map[string]interface{}{"session_id": "ab12", "attacker_id": "b1"},
			handle: (*Client).handleAttackFortress,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionAttackFortress || req.TargetFortress != engine.Player1 {
					t.Errorf("Unexpected fortress attack %+v", req.Action)
				}
			},
		},
		{
			name:   "end turn",
			tool:   "end_turn",
			args:   map[string]interface{}{"session_id": "ab12"},
			handle: (*Client).handleEndTurn,
			check: func(t *testing.T, req service.ActionRequest) {
				if req.Type != engine.ActionEndTurn {
					t.Errorf("Unexpected action %+v", req.Action)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeAPI(t)

			result, err := tt.handle(client, context.Background(), callRequest(tt.tool, tt.args))
			if err != nil {
				t.Fatalf("%s failed: %v", tt.tool, err)
			}
			if len(api.actions) != 1 {
				t.Fatalf("Expected one submitted action, got %d", len(api.actions))
			}

			req := api.actions[0]
			if req.PlayerID != engine.Player2 {
				t.Errorf("Expected the current player to act, got %s", req.PlayerID)
			}
			tt.check(t, req)

			if text := resultText(t, result); !strings.Contains(text, "accepted") {
				t.Errorf("Expected acceptance in result, got: %s", text)
			}
		})
	}
}

func TestClient_actionRejected(t *testing.T) {
	api, client := newFakeAPI(t)

	result, _ := client.handleEndTurn(context.Background(), callRequest("end_turn", map[string]interface{}{
		"session_id": "ab12",
		"player_id":  "player1",
	}))

	// An explicit player skips the state lookup
	for _, p := range api.paths {
		if strings.HasSuffix(p, "/state") {
			t.Errorf("Unexpected state fetch %s", p)
		}
	}

	text := resultText(t, result)
	if !strings.Contains(text, "rejected: rejected: not your turn") {
		t.Errorf("Expected rejection reason, got: %s", text)
	}
}

func TestClient_actionMissingCoordinates(t *testing.T) {
	api, client := newFakeAPI(t)

	result, _ := client.handleMoveUnit(context.Background(), callRequest("move_unit", map[string]interface{}{
		"session_id": "ab12",
		"card_id":    "b1",
	}))
	if !result.IsError {
		t.Error("Expected a tool error without q and r")
	}
	if len(api.actions) != 0 {
		t.Error("Nothing should be submitted")
	}
}

func TestClient_unknownSession(t *testing.T) {
	_, client := newFakeAPI(t)

	result, _ := client.handleGameState(context.Background(), callRequest("game_state", map[string]interface{}{
		"session_id": "missing",
	}))
	if !result.IsError {
		t.Error("Expected a tool error for an unknown session")
	}
}

func TestClient_legalActions(t *testing.T) {
	api, client := newFakeAPI(t)
	ctx := context.Background()

	result, _ := client.handleLegalActions(ctx, callRequest("legal_actions", map[string]interface{}{"session_id": "ab12"}))
	if text := resultText(t, result); !strings.Contains(text, "Legal actions") || !strings.Contains(text, "END_TURN") {
		t.Errorf("Expected legal action list, got: %s", text)
	}

	result, _ = client.handleLegalActions(ctx, callRequest("legal_actions", map[string]interface{}{"session_id": "ab12", "card_id": "a1"}))
	text := resultText(t, result)
	if !strings.Contains(text, "Card a1") || !strings.Contains(text, "Can attack fortress") {
		t.Errorf("Expected card target sets, got: %s", text)
	}

	last := api.paths[len(api.paths)-1]
	if !strings.HasSuffix(last, "/legal?card_id=a1") {
		t.Errorf("Expected card_id query, got %s", last)
	}
}

func TestClient_actionHistory(t *testing.T) {
	api, client := newFakeAPI(t)

	result, _ := client.handleActionHistory(context.Background(), callRequest("action_history", map[string]interface{}{
		"session_id": "ab12",
		"page":       float64(2),
		"limit":      float64(5),
	}))

	if last := api.paths[len(api.paths)-1]; !strings.Contains(last, "limit=5") || !strings.Contains(last, "page=2") {
		t.Errorf("Expected paging parameters, got %s", last)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Total: 2") || !strings.Contains(text, "✗ rejected: not your turn") {
		t.Errorf("Unexpected history: %s", text)
	}
}

func TestClient_listConfigs(t *testing.T) {
	_, client := newFakeAPI(t)

	result, _ := client.handleListConfigs(context.Background(), callRequest("list_configs", nil))
	text := resultText(t, result)

	if !strings.Contains(text, "config_id: skirmish") || !strings.Contains(text, "Corridor: 6x3") {
		t.Errorf("Unexpected config listing: %s", text)
	}
}

func TestClient_describeTile(t *testing.T) {
	_, client := newFakeAPI(t)
	ctx := context.Background()

	tests := []struct {
		name string
		q, r int
		want []string
	}{
		{"reward tile", 1, 0, []string{"Zone: corridor", "Reward: Grass (HP 300", "Occupant: empty"}},
		{"occupied spawn edge", 0, 1, []string{"Zone: player1 spawn edge", "Occupant: player1's a1", "Distance to player1 fortress: 1"}},
		{"hidden tile", 2, 0, []string{"Revealed: false", "hidden until a unit enters"}},
		{"out of bounds", 9, 0, []string{"outside the 4x2 corridor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := client.handleDescribeTile(ctx, callRequest("describe_tile", map[string]interface{}{
				"session_id": "ab12",
				"q":          float64(tt.q),
				"r":          float64(tt.r),
			}))
			text := resultText(t, result)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q, got: %s", want, text)
				}
			}
		})
	}
}

func TestFormatGameState(t *testing.T) {
	result := formatGameState(testState())

	expectedFields := []string{
		"Turn: 3 | Current: player2",
		"Fortress player1: 2800/3000",
		"Fortress player2: 0/3000",
		"player1 board (1):",
		"player1 hand (1):",
		"a2 Mouse HP 30/30 SPD 2 RNG 1 AP 0 at hand",
		"b1 Grass HP 300/300",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_Board(t *testing.T) {
	result := formatGameState(testState())

	// Row r=0: spawn edges revealed, reward at q=1, q=2 hidden
	if !strings.Contains(result, ". + # .\n") {
		t.Errorf("Expected rendered row 0, got: %s", result)
	}
	// Row r=1 is indented by one and shows both units
	if !strings.Contains(result, " 1 # 2 .\n") {
		t.Errorf("Expected rendered row 1, got: %s", result)
	}
}

func TestFormatGameState_Winner(t *testing.T) {
	state := testState()
	state.Winner = engine.Player1
	state.Phase = engine.PhaseEnded

	if result := formatGameState(state); !strings.Contains(result, "WINNER: player1") {
		t.Errorf("Expected winner banner, got: %s", result)
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if result := formatGameState(nil); result != "No game state available" {
		t.Errorf("Unexpected output for nil state: %s", result)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Hex Corridor - Complete Instructions",
		"GAME OBJECTIVE:",
		"BOARD LEGEND",
		"TURN STRUCTURE:",
		"Fortress rush",
		"VICTORY CONDITIONS:",
		"defender's fortress",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
