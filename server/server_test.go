package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/guinote/game"
	utils "github.com/minaorangina/guinote/internal"
	"github.com/minaorangina/guinote/protocol"
	"github.com/minaorangina/guinote/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerPOSTNewGame(t *testing.T) {
	t.Run("succeeds and returns expected data", func(t *testing.T) {
		data := mustMakeJson(t, NewGameReq{Name: "Elton"})

		response := httptest.NewRecorder()
		request := newCreateGameRequest(data)

		server, _ := newTestServer(ServerOpts{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusCreated)
		assertPendingGameResponse(t, response.Body, "Elton")
	})

	t.Run("fills seats with bots", func(t *testing.T) {
		server, str := newTestServer(ServerOpts{})

		got := createGame(t, server, "Elton", 3)

		table, err := str.FindGame(context.Background(), got.GameID)
		require.NoError(t, err)
		utils.AssertEqual(t, len(table.Players), 4)
		utils.AssertEqual(t, table.CreatorID, got.PlayerID)
		utils.AssertTrue(t, !table.Players[0].IsBot)
		utils.AssertTrue(t, table.Players[3].IsBot)
		assert.Equal(t, []string{"Elton", "Bot 1", "Bot 2", "Bot 3"}, got.Players)
	})

	t.Run("returns 400 if the player's name is missing", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newCreateGameRequest([]byte{})

		server, _ := newTestServer(ServerOpts{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusBadRequest)

		response = httptest.NewRecorder()
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{})))
		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("returns 400 for too many bots", func(t *testing.T) {
		response := httptest.NewRecorder()
		server, _ := newTestServer(ServerOpts{})
		server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{Name: "Elton", Bots: 4})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("Does not match on GET /new", func(t *testing.T) {
		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/new", nil)

		server, _ := newTestServer(ServerOpts{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusNotFound)
	})

	t.Run("allows cross-origin requests", func(t *testing.T) {
		response := httptest.NewRecorder()
		request := newCreateGameRequest(mustMakeJson(t, NewGameReq{Name: "Elton"}))
		request.Header.Set("Origin", "http://example.com")

		server, _ := newTestServer(ServerOpts{})
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusCreated)
		utils.AssertEqual(t, response.Header().Get("Access-Control-Allow-Origin"), "*")
	})
}

func TestJoinGame(t *testing.T) {
	t.Run("POST /join returns 200 for existing game", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})
		created := createGame(t, server, "Hersha", 0)

		data := mustMakeJson(t, JoinGameReq{created.GameID, "Heloise"})
		response := httptest.NewRecorder()
		server.ServeHTTP(response, newJoinGameRequest(data))

		assertStatus(t, response.Code, http.StatusOK)

		var got PendingGameRes
		err := json.Unmarshal(response.Body.Bytes(), &got)
		if err != nil {
			t.Fatalf("Could not unmarshal json: %s", err.Error())
		}
		if got.PlayerID == "" {
			t.Error("Expected a player id")
		}
		utils.AssertEqual(t, got.GameID, created.GameID)
		utils.AssertEqual(t, got.Name, "Heloise")
		utils.AssertTrue(t, !got.Admin)
		assert.Equal(t, []string{"Hersha", "Heloise"}, got.Players)
	})

	t.Run("POST /join returns 400 if request data missing", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})
		response := httptest.NewRecorder()

		server.ServeHTTP(response, newJoinGameRequest(nil))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("POST /join returns 400 for an unknown game id", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})
		response := httptest.NewRecorder()

		server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{"some-game-id", "Heloise"})))

		assertStatus(t, response.Code, http.StatusBadRequest)
	})

	t.Run("POST /join returns 409 for a full table", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})
		created := createGame(t, server, "Hersha", 3)
		response := httptest.NewRecorder()

		server.ServeHTTP(response, newJoinGameRequest(mustMakeJson(t, JoinGameReq{created.GameID, "Heloise"})))

		assertStatus(t, response.Code, http.StatusConflict)
	})
}

func TestServerGETGame(t *testing.T) {
	t.Run("returns an existing pending game", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})
		created := createGame(t, server, "Hersha", 1)

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest(created.GameID))

		assertStatus(t, response.Code, http.StatusOK)
		var got GetGameRes
		utils.AssertNoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		utils.AssertEqual(t, got.GameID, created.GameID)
		utils.AssertEqual(t, got.Status, "pending")
		assert.Nil(t, got.View)
	})

	t.Run("shows a started game from the player's seat", func(t *testing.T) {
		server, str := newTestServer(ServerOpts{})
		created := createGame(t, server, "Hersha", 3)
		_, err := str.UpdateGame(context.Background(), created.GameID, func(table *store.Table) error {
			return table.Start(game.MatchOpts{}, server.rand)
		})
		require.NoError(t, err)

		response := httptest.NewRecorder()
		request, _ := http.NewRequest(http.MethodGet, "/game/"+created.GameID+"?player_id="+created.PlayerID, nil)
		server.ServeHTTP(response, request)

		assertStatus(t, response.Code, http.StatusOK)
		var got GetGameRes
		utils.AssertNoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		utils.AssertEqual(t, got.Status, "inProgress")
		require.NotNil(t, got.View)
		utils.AssertEqual(t, len(got.View.Hand), 6)
		utils.AssertEqual(t, got.View.DeckCount, 16)
	})

	t.Run("returns a 404 if game doesn't exist", func(t *testing.T) {
		server, _ := newTestServer(ServerOpts{})

		response := httptest.NewRecorder()
		server.ServeHTTP(response, newGetGameRequest("bad-game-id"))

		utils.AssertEqual(t, response.Code, http.StatusNotFound)
	})
}

func TestWS(t *testing.T) {
	t.Run("Handles missing game details", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()

		_, _, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, "", ""), nil)
		utils.AssertErrored(t, err)
	})

	t.Run("Rejects if game doesn't exist", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()

		_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, "unknowngamelol", "unknownhooman"), nil)

		utils.AssertErrored(t, err)
		utils.AssertEqual(t, resp.StatusCode, http.StatusBadRequest)
	})

	t.Run("Rejects a player who isn't seated", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()
		created := createGame(t, gs, "Delilah", 0)

		_, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, created.GameID, "unknownhooman"), nil)

		utils.AssertErrored(t, err)
		utils.AssertEqual(t, resp.StatusCode, http.StatusBadRequest)
	})

	t.Run("Successfully connects", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()
		created := createGame(t, gs, "Delilah", 0)

		ws, resp, err := websocket.DefaultDialer.Dial(makeWSUrl(server.URL, created.GameID, created.PlayerID), nil)

		utils.AssertNoError(t, err)
		utils.AssertEqual(t, resp.StatusCode, http.StatusSwitchingProtocols)
		utils.AssertTrue(t, ws != nil)
		ws.Close()
	})

	t.Run("plays against bots", func(t *testing.T) {
		gs, str := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()
		defer gs.Close()
		created := createGame(t, gs, "Delilah", 3)

		ws := mustDialWS(t, makeWSUrl(server.URL, created.GameID, created.PlayerID))
		defer ws.Close()

		utils.AssertNoError(t, ws.WriteJSON(map[string]interface{}{"command": "Start"}))
		readUntil(t, ws, isCmd(protocol.HasStarted))

		// play whatever is legal until the first trick is taken
		trickTaken := func(msg protocol.OutboundMessage) bool {
			if msg.Command != protocol.State || msg.View == nil {
				return false
			}
			v := msg.View
			if v.CurrentTurn == created.PlayerID && len(v.Moves) > 0 && len(v.CurrentTrick) < 4 {
				ws.WriteJSON(map[string]interface{}{"command": "PlayCard", "cardID": v.Moves[0]})
			}
			return v.DeckCount == 12
		}
		msg := readUntil(t, ws, trickTaken)

		utils.AssertEqual(t, len(msg.View.Hand), 6)
		table, err := str.FindGame(context.Background(), created.GameID)
		require.NoError(t, err)
		utils.AssertNoError(t, table.Match.State.Validate())
		utils.AssertTrue(t, table.Match.Moves >= 4)
	})

	t.Run("rejected moves are reported to the player", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{})
		server := httptest.NewServer(gs)
		defer server.Close()
		defer gs.Close()
		created := createGame(t, gs, "Delilah", 3)

		ws := mustDialWS(t, makeWSUrl(server.URL, created.GameID, created.PlayerID))
		defer ws.Close()

		utils.AssertNoError(t, ws.WriteJSON(map[string]interface{}{"command": "PlayCard", "cardID": "oros-1"}))
		msg := readUntil(t, ws, isCmd(protocol.Error))
		assert.Contains(t, msg.Error, store.ErrGameNotStarted.Error())

		utils.AssertNoError(t, ws.WriteJSON(map[string]interface{}{"command": 99}))
		msg = readUntil(t, ws, isCmd(protocol.Error))
		assert.NotEmpty(t, msg.Error)
	})

	t.Run("a player who runs out of time plays their lowest card", func(t *testing.T) {
		gs, _ := newTestServer(ServerOpts{TurnTimeout: 20 * time.Millisecond})
		server := httptest.NewServer(gs)
		defer server.Close()
		defer gs.Close()
		created := createGame(t, gs, "Delilah", 3)

		ws := mustDialWS(t, makeWSUrl(server.URL, created.GameID, created.PlayerID))
		defer ws.Close()

		utils.AssertNoError(t, ws.WriteJSON(map[string]interface{}{"command": protocol.Start}))

		msg := readUntil(t, ws, func(msg protocol.OutboundMessage) bool {
			return msg.View != nil && msg.View.HandSizes[created.PlayerID] == 5
		})
		utils.AssertEqual(t, len(msg.View.Hand), 5)
	})
}
