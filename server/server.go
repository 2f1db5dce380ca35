package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/guinote/game"
	"github.com/minaorangina/guinote/protocol"
	"github.com/minaorangina/guinote/store"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errStaleTurn = errors.New("turn has already been played")

type NewGameReq struct {
	Name string `json:"name"`
	// Bots fills that many seats with computer players
	Bots int `json:"bots"`
}

type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type GetGameRes struct {
	GameID  string         `json:"game_id"`
	Status  string         `json:"status"`
	Players []string       `json:"players"`
	View    *protocol.View `json:"view,omitempty"`
}

// ServerOpts configures a GameServer. Zero values are usable.
type ServerOpts struct {
	Logger      *zap.Logger
	MatchOpts   game.MatchOpts
	TurnTimeout time.Duration
	BotDelay    time.Duration
	Seed        uint64
}

// GameServer is a game server
type GameServer struct {
	store     store.GameStore
	logger    *zap.Logger
	matchOpts game.MatchOpts
	rand      *rand.Rand
	scheduler *Scheduler

	mu    sync.Mutex
	rooms map[string]*room

	http.Server
}

// NewServer creates a new GameServer
func NewServer(str store.GameStore, opts ServerOpts) *GameServer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := &rand.LockedSource{}
	src.Seed(seed)

	s := &GameServer{
		store:     str,
		logger:    logger,
		matchOpts: opts.MatchOpts,
		rand:      rand.New(src),
		rooms:     map[string]*room{},
	}
	s.scheduler = NewScheduler(opts.TurnTimeout, opts.BotDelay, s.playScheduled, logger)

	router := http.NewServeMux()
	router.HandleFunc("/new", s.HandleNewGame)
	router.HandleFunc("/join", s.HandleJoinGame)
	router.HandleFunc("/game/", s.HandleFindGame)
	router.HandleFunc("/ws", s.HandleWS)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	accessLog := zap.NewStdLog(logger.Named("http")).Writer()
	s.Handler = handlers.LoggingHandler(accessLog, cors(router))

	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// Close stops scheduled turns and disconnects everyone
func (g *GameServer) Close() {
	g.scheduler.Stop()

	g.mu.Lock()
	defer g.mu.Unlock()
	for id, r := range g.rooms {
		r.close()
		delete(g.rooms, id)
	}
}

func (g *GameServer) room(gameID string) *room {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[gameID]
	if !ok {
		r = newRoom(gameID, g.logger, func() { g.dropRoom(gameID, r) })
		g.rooms[gameID] = r
	}
	return r
}

// dropRoom forgets a finished game's room once its players have gone
func (g *GameServer) dropRoom(gameID string, r *room) {
	g.mu.Lock()
	if g.rooms[gameID] == r {
		delete(g.rooms, gameID)
	}
	g.mu.Unlock()

	r.close()
	g.scheduler.Forget(gameID)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) error {
	bytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	return nil
}

func playerNames(t store.Table) []string {
	names := []string{}
	for _, p := range t.Players {
		names = append(names, p.Name)
	}
	return names
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}
	if data.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing player name")
		return
	}
	if data.Bots < 0 || data.Bots > 3 {
		writeError(w, http.StatusBadRequest, "Bots must be between 0 and 3")
		return
	}

	gameID := g.NewGameID()
	playerID := NewID()

	table := store.NewTable(gameID, playerID)
	table.Seat(game.Player{ID: playerID, Name: data.Name})
	for i := 1; i <= data.Bots; i++ {
		table.Seat(game.Player{ID: NewID(), Name: fmt.Sprintf("Bot %d", i), IsBot: true})
	}

	if err := g.store.AddGame(r.Context(), table); err != nil {
		g.logger.Error("could not create game", zap.String("game_id", gameID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	g.logger.Info("game created", zap.String("game_id", gameID), zap.Int("bots", data.Bots))

	payload := PendingGameRes{
		GameID:   gameID,
		PlayerID: playerID,
		Name:     data.Name,
		Admin:    true,
		Players:  playerNames(table),
	}
	if err := writeJSON(w, http.StatusCreated, payload); err != nil {
		g.logger.Error("could not encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}
	if data.GameID == "" {
		writeError(w, http.StatusBadRequest, "Missing game ID")
		return
	}
	if data.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing player name")
		return
	}

	joiner := game.Player{ID: NewID(), Name: data.Name}
	table, err := g.store.UpdateGame(r.Context(), data.GameID, func(t *store.Table) error {
		return t.Seat(joiner)
	})
	switch {
	case errors.Is(err, store.ErrUnknownGameID):
		writeError(w, http.StatusBadRequest, unknownGameIDMsg(data.GameID))
		return
	case errors.Is(err, store.ErrTableFull), errors.Is(err, store.ErrGameAlreadyStarted):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		g.logger.Error("could not join game", zap.String("game_id", data.GameID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	for _, p := range table.Players {
		if p.ID == joiner.ID {
			continue
		}
		g.room(table.ID).send(protocol.OutboundMessage{
			PlayerID: p.ID,
			Command:  protocol.NewJoiner,
			Message:  fmt.Sprintf("%s has joined the game!", joiner.Name),
			Joiner:   protocol.Player{PlayerID: joiner.ID, Name: joiner.Name},
		})
	}

	payload := PendingGameRes{
		PlayerID: joiner.ID,
		GameID:   table.ID,
		Name:     joiner.Name,
		Players:  playerNames(table),
	}
	if err := writeJSON(w, http.StatusOK, payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "missing game ID")
		return
	}

	table, err := g.store.FindGame(r.Context(), gameID)
	if errors.Is(err, store.ErrUnknownGameID) {
		writeError(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}
	if err != nil {
		g.logger.Error("could not load game", zap.String("game_id", gameID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := GetGameRes{GameID: gameID, Status: status(table), Players: playerNames(table)}
	playerID := r.URL.Query().Get("player_id")
	if table.Started() && table.HasPlayer(playerID) {
		view := protocol.BuildView(*table.Match, playerID)
		response.View = &view
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func status(t store.Table) string {
	switch {
	case !t.Started():
		return "pending"
	case t.Match.Over():
		return "over"
	}
	return "inProgress"
}

func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID := query.Get("game_id")
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "missing game ID")
		return
	}
	playerID := query.Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "missing player ID")
		return
	}

	table, err := g.store.FindGame(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusBadRequest, unknownGameIDMsg(gameID))
		return
	}
	if !table.HasPlayer(playerID) {
		writeError(w, http.StatusBadRequest, "unknown player ID")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		g.logger.Info("could not upgrade to websocket", zap.Error(err))
		return
	}

	rm := g.room(gameID)
	c := &client{playerID: playerID, conn: conn, send: make(chan []byte, sendBuffer)}
	rm.join(c)
	go c.writePump()
	go c.readPump(rm, func(msg protocol.InboundMessage) {
		g.handleInbound(gameID, msg)
	})

	if table.Started() {
		view := protocol.BuildView(*table.Match, playerID)
		rm.send(protocol.OutboundMessage{PlayerID: playerID, Command: protocol.State, View: &view})
		if table.Match.Over() {
			rm.finish()
		}
	}
}

func (g *GameServer) handleInbound(gameID string, msg protocol.InboundMessage) {
	ctx := context.Background()

	if msg.Command == protocol.Start {
		g.start(ctx, gameID, msg.PlayerID)
		return
	}
	if msg.Command == protocol.State {
		table, err := g.store.FindGame(ctx, gameID)
		if err != nil || !table.Started() {
			g.reject(gameID, msg.PlayerID, store.ErrGameNotStarted)
			return
		}
		view := protocol.BuildView(*table.Match, msg.PlayerID)
		g.room(gameID).send(protocol.OutboundMessage{PlayerID: msg.PlayerID, Command: protocol.State, View: &view})
		return
	}

	action, err := protocol.ToAction(msg)
	if err != nil {
		g.reject(gameID, msg.PlayerID, err)
		return
	}
	if _, err := g.apply(ctx, gameID, action, -1); err != nil {
		g.reject(gameID, msg.PlayerID, err)
	}
}

func (g *GameServer) start(ctx context.Context, gameID, playerID string) {
	table, err := g.store.UpdateGame(ctx, gameID, func(t *store.Table) error {
		if t.CreatorID != playerID {
			return errors.New("only the game's creator can start it")
		}
		return t.Start(g.matchOpts, g.rand)
	})
	if err != nil {
		g.reject(gameID, playerID, err)
		return
	}
	g.logger.Info("game started", zap.String("game_id", gameID))

	for _, p := range table.Players {
		g.room(gameID).send(protocol.OutboundMessage{PlayerID: p.ID, Command: protocol.HasStarted})
	}
	g.publish(table, false)
}

// apply runs a through the engine under the store's per-game lock. A
// non-negative moves only applies if nobody has moved since.
func (g *GameServer) apply(ctx context.Context, gameID string, a game.Action, moves int) (store.Table, error) {
	var handOver bool
	table, err := g.store.UpdateGame(ctx, gameID, func(t *store.Table) error {
		if !t.Started() {
			return store.ErrGameNotStarted
		}
		if moves >= 0 && t.Match.Moves != moves {
			return errStaleTurn
		}
		m, err := t.Match.Apply(a, g.rand)
		if err != nil {
			return err
		}
		handOver = m.LastHand != t.Match.LastHand
		t.Match = &m
		return nil
	})
	if err != nil {
		return table, err
	}

	g.logger.Debug("action applied",
		zap.String("game_id", gameID),
		zap.Stringer("action", a.Type),
		zap.String("player_id", a.PlayerID),
	)
	g.publish(table, handOver)
	return table, nil
}

func (g *GameServer) playScheduled(gameID string, a game.Action, moves int) {
	_, err := g.apply(context.Background(), gameID, a, moves)
	if err != nil && !errors.Is(err, errStaleTurn) {
		g.logger.Warn("scheduled play failed", zap.String("game_id", gameID), zap.Error(err))
	}
}

// publish sends every human their own view and arms the next turn
func (g *GameServer) publish(table store.Table, handOver bool) {
	m := *table.Match
	rm := g.room(table.ID)

	for _, p := range m.State.Players {
		if p.IsBot {
			continue
		}
		view := protocol.BuildView(m, p.ID)
		rm.send(protocol.OutboundMessage{PlayerID: p.ID, Command: protocol.State, View: &view})

		if handOver && m.LastHand != nil {
			rm.send(protocol.OutboundMessage{
				PlayerID: p.ID,
				Command:  protocol.HandOver,
				Message:  handOverMsg(*m.LastHand),
			})
		}
		if m.Over() {
			rm.send(protocol.OutboundMessage{
				PlayerID: p.ID,
				Command:  protocol.GameOver,
				Message:  fmt.Sprintf("team %d wins the match", m.Score.Winner()),
			})
		}
	}

	g.scheduler.Arm(m)
	if m.Over() {
		g.logger.Info("game over", zap.String("game_id", table.ID), zap.Int("winner", m.Score.Winner()))
		rm.finish()
	}
}

func handOverMsg(r game.HandResult) string {
	msg := fmt.Sprintf("team %d wins the hand %d to %d", r.Winner, r.Scores[r.Winner], r.Scores[1-r.Winner])
	if r.Malas {
		msg += " (30 malas)"
	}
	return msg
}

func (g *GameServer) reject(gameID, playerID string, err error) {
	if !game.IsRejection(err) {
		g.logger.Info("request refused", zap.String("game_id", gameID), zap.String("player_id", playerID), zap.Error(err))
	}
	g.room(gameID).send(protocol.OutboundMessage{
		PlayerID: playerID,
		Command:  protocol.Error,
		Error:    err.Error(),
	})
}
