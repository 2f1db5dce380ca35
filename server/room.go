package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/guinote/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 16
)

// client is one player's websocket connection
type client struct {
	playerID string
	conn     *websocket.Conn
	send     chan []byte
}

// room fans messages out to the players connected to one game. Only its run
// loop touches the clients and versions maps.
type room struct {
	gameID     string
	clients    map[string]*client
	register   chan *client
	unregister chan *client
	outbound   chan protocol.OutboundMessage
	over       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
	logger     *zap.Logger

	// newest view version sent to each player
	versions map[string]int
	ended    bool
	// called once the game is over and nobody is connected
	release  func()
}

func newRoom(gameID string, logger *zap.Logger, release func()) *room {
	r := &room{
		gameID:     gameID,
		clients:    map[string]*client{},
		register:   make(chan *client),
		unregister: make(chan *client),
		outbound:   make(chan protocol.OutboundMessage, sendBuffer),
		over:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("game_id", gameID)),
		versions:   map[string]int{},
		release:    release,
	}
	go r.run()
	return r
}

func (r *room) run() {
	for {
		select {
		case c := <-r.register:
			if old, ok := r.clients[c.playerID]; ok {
				close(old.send)
			}
			r.clients[c.playerID] = c
			r.logger.Debug("player connected", zap.String("player_id", c.playerID))

		case c := <-r.unregister:
			if current, ok := r.clients[c.playerID]; ok && current == c {
				delete(r.clients, c.playerID)
				close(c.send)
				r.logger.Debug("player disconnected", zap.String("player_id", c.playerID))
			}
			r.releaseIfIdle()

		case <-r.over:
			r.ended = true
			r.releaseIfIdle()

		case msg := <-r.outbound:
			if msg.View != nil {
				if last, ok := r.versions[msg.PlayerID]; ok && msg.View.Version < last {
					continue
				}
				r.versions[msg.PlayerID] = msg.View.Version
			}
			c, ok := r.clients[msg.PlayerID]
			if !ok {
				continue
			}
			data, err := json.Marshal(msg)
			if err != nil {
				r.logger.Error("could not encode message", zap.Error(err))
				continue
			}
			select {
			case c.send <- data:
			default:
				r.logger.Warn("dropping slow player", zap.String("player_id", c.playerID))
				delete(r.clients, c.playerID)
				close(c.send)
				r.releaseIfIdle()
			}

		case <-r.done:
			for id, c := range r.clients {
				close(c.send)
				delete(r.clients, id)
			}
			return
		}
	}
}

func (r *room) releaseIfIdle() {
	if !r.ended || len(r.clients) > 0 || r.release == nil {
		return
	}
	r.logger.Debug("releasing finished game")
	// release closes the room, which this loop must be free to notice
	go r.release()
	r.release = nil
}

func (r *room) send(msg protocol.OutboundMessage) {
	select {
	case r.outbound <- msg:
	case <-r.done:
	}
}

func (r *room) join(c *client) {
	select {
	case r.register <- c:
	case <-r.done:
	}
}

func (r *room) leave(c *client) {
	select {
	case r.unregister <- c:
	case <-r.done:
	}
}

// finish marks the game as over. The room is released when the last player leaves.
func (r *room) finish() {
	select {
	case r.over <- struct{}{}:
	case <-r.done:
	}
}

func (r *room) close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

// readPump hands every message from the peer to handle until the connection drops
func (c *client) readPump(r *room, handle func(protocol.InboundMessage)) {
	defer func() {
		r.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Info("websocket closed", zap.String("player_id", c.playerID), zap.Error(err))
			}
			return
		}

		msg, err := decodeInbound(data)
		if err != nil {
			r.send(protocol.OutboundMessage{
				PlayerID: c.playerID,
				Command:  protocol.Error,
				Error:    err.Error(),
			})
			continue
		}
		// the connection decides who is speaking
		msg.PlayerID = c.playerID
		handle(msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The room closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
