package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	utils "github.com/minaorangina/guinote/internal"
	"github.com/minaorangina/guinote/protocol"
	"github.com/minaorangina/guinote/store"
)

func newTestServer(opts ServerOpts) (*GameServer, *store.InMemoryGameStore) {
	str := store.NewInMemoryGameStore()
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	return NewServer(str, opts), str
}

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func newCreateGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/new", bytes.NewBuffer(data))
	return request
}

func newGetGameRequest(gameID string) *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/game/"+gameID, nil)
	return request
}

func newJoinGameRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/join", bytes.NewBuffer(data))
	return request
}

// createGame posts to /new and returns the decoded response
func createGame(t *testing.T, server http.Handler, name string, bots int) PendingGameRes {
	t.Helper()

	response := httptest.NewRecorder()
	server.ServeHTTP(response, newCreateGameRequest(mustMakeJson(t, NewGameReq{Name: name, Bots: bots})))
	assertStatus(t, response.Code, http.StatusCreated)

	var got PendingGameRes
	utils.AssertNoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	return got
}

// ASSERTIONS

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}

func assertPendingGameResponse(t *testing.T, body *bytes.Buffer, want string) {
	t.Helper()
	bodyBytes, err := ioutil.ReadAll(body)
	utils.AssertNoError(t, err)

	var got PendingGameRes
	err = json.Unmarshal(bodyBytes, &got)
	if err != nil {
		t.Fatalf("could not unmarshal json: %s", err.Error())
	}
	if got.Name != want {
		t.Errorf("got %s, want %s", got.Name, want)
	}
	if len(got.GameID) == 0 {
		t.Error("expected a game id")
	}
	if len(got.PlayerID) == 0 {
		t.Error("expected a player id")
	}
}

func mustDialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)

	if err != nil {
		body, _ := ioutil.ReadAll(resp.Body)
		t.Fatalf("could not open a ws connection on %s, code %d: %s, %v", url, resp.StatusCode, body, err)
	}
	if ws == nil {
		t.Fatal("unexpected nil websocket conn")
	}

	return ws
}

func makeWSUrl(serverURL, gameID, playerID string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") +
		"/ws?game_id=" + gameID + "&player_id=" + playerID
}

// readUntil reads messages until match accepts one, failing after a few seconds
func readUntil(t *testing.T, ws *websocket.Conn, match func(protocol.OutboundMessage) bool) protocol.OutboundMessage {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	ws.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var msg protocol.OutboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("reading from websocket: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
	t.Fatal("timed out waiting for message")
	return protocol.OutboundMessage{}
}

func isCmd(cmd protocol.Cmd) func(protocol.OutboundMessage) bool {
	return func(msg protocol.OutboundMessage) bool {
		return msg.Command == cmd
	}
}
