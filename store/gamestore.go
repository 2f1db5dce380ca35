package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/minaorangina/guinote/deck"
	"github.com/minaorangina/guinote/game"
)

var (
	ErrUnknownGameID      = errors.New("unknown game ID")
	ErrUnknownPlayerID    = errors.New("unknown player ID")
	ErrDuplicateGameID    = errors.New("game ID already exists")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrTableFull          = errors.New("all four seats are taken")
	ErrNotEnoughPlayers   = errors.New("four players are needed to start")
)

const seats = 4

// Table is one game: the players waiting to start and, once four are seated,
// the match itself.
type Table struct {
	ID        string        `json:"id"`
	CreatorID string        `json:"creatorID"`
	Players   []game.Player `json:"players"`
	Match     *game.Match   `json:"match,omitempty"`
}

func NewTable(id, creatorID string) Table {
	return Table{ID: id, CreatorID: creatorID, Players: []game.Player{}}
}

func (t Table) Started() bool {
	return t.Match != nil
}

func (t Table) HasPlayer(playerID string) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Seat adds a player to a table that hasn't started
func (t *Table) Seat(p game.Player) error {
	if t.Started() {
		return ErrGameAlreadyStarted
	}
	if len(t.Players) >= seats {
		return ErrTableFull
	}
	if t.HasPlayer(p.ID) {
		return fmt.Errorf("player %s is already seated", p.ID)
	}
	t.Players = append(t.Players, p)
	return nil
}

// Start deals the first hand. Seat order is join order; the first player to
// join deals.
func (t *Table) Start(opts game.MatchOpts, r deck.Rand) error {
	if t.Started() {
		return ErrGameAlreadyStarted
	}
	if len(t.Players) != seats {
		return fmt.Errorf("%w: %d seated", ErrNotEnoughPlayers, len(t.Players))
	}
	var players [seats]game.Player
	copy(players[:], t.Players)

	m, err := game.NewMatch(t.ID, players, 0, opts, r)
	if err != nil {
		return err
	}
	t.Match = &m
	return nil
}

func (t Table) clone() Table {
	out := t
	out.Players = append([]game.Player{}, t.Players...)
	if t.Match != nil {
		m := *t.Match
		m.State = m.State.Clone()
		out.Match = &m
	}
	return out
}

// GameStore persists tables by id. UpdateGame runs fn against the latest copy
// of the table and saves the result only if fn returns nil; updates to the same
// table never interleave.
type GameStore interface {
	FindGame(ctx context.Context, gameID string) (Table, error)
	AddGame(ctx context.Context, t Table) error
	UpdateGame(ctx context.Context, gameID string, fn func(t *Table) error) (Table, error)
	DeleteGame(ctx context.Context, gameID string) error
}

type tableEntry struct {
	mu    sync.Mutex
	table Table
}

// InMemoryGameStore maps game id to table
type InMemoryGameStore struct {
	mu     sync.RWMutex
	Tables map[string]*tableEntry
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		Tables: map[string]*tableEntry{},
	}
}

func (s *InMemoryGameStore) entry(gameID string) (*tableEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.Tables[gameID]
	return e, ok
}

func (s *InMemoryGameStore) FindGame(_ context.Context, gameID string) (Table, error) {
	e, ok := s.entry(gameID)
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.clone(), nil
}

func (s *InMemoryGameStore) AddGame(_ context.Context, t Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Tables[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGameID, t.ID)
	}
	s.Tables[t.ID] = &tableEntry{table: t.clone()}
	return nil
}

func (s *InMemoryGameStore) UpdateGame(_ context.Context, gameID string, fn func(t *Table) error) (Table, error) {
	e, ok := s.entry(gameID)
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.table.clone()
	if err := fn(&working); err != nil {
		return e.table.clone(), err
	}
	e.table = working
	return working.clone(), nil
}

func (s *InMemoryGameStore) DeleteGame(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Tables[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	delete(s.Tables, gameID)
	return nil
}
