package server

import (
	"sync"
	"time"

	"github.com/minaorangina/guinote/game"
	"go.uber.org/zap"
)

// PlayFunc feeds a scheduled action back through the ordinary path. moves is the
// match's move count when the action was chosen, so a turn that has already been
// taken can be recognised and skipped.
type PlayFunc func(gameID string, a game.Action, moves int)

// Scheduler keeps at most one pending turn per match. A human who runs out of
// time, or a bot whose turn it is, plays their lowest-value legal card.
type Scheduler struct {
	timeout  time.Duration
	botDelay time.Duration
	play     PlayFunc
	logger   *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	// highest move count armed per match
	armed  map[string]int
	closed bool
}

// NewScheduler constructs a Scheduler. A zero timeout leaves humans all the time
// they want; bots are always played.
func NewScheduler(timeout, botDelay time.Duration, play PlayFunc, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		timeout:  timeout,
		botDelay: botDelay,
		play:     play,
		logger:   logger,
		timers:   map[string]*time.Timer{},
		armed:    map[string]int{},
	}
}

// Arm replaces whatever was pending for the match with a timer for the player
// whose turn it now is. A match older than one already armed is ignored.
func (s *Scheduler) Arm(m game.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.armed[m.ID]; ok && m.Moves < last {
		return
	}
	s.armed[m.ID] = m.Moves

	s.cancel(m.ID)
	if s.closed || m.Over() {
		return
	}

	current := m.State.Players[m.State.CurrentPlayer]
	delay := s.timeout
	if current.IsBot {
		delay = s.botDelay
	} else if s.timeout <= 0 {
		return
	}

	card, ok := game.LowestLegalPlay(m.State, current.ID)
	if !ok {
		return
	}
	action := game.PlayCard(current.ID, card.ID())
	gameID, moves := m.ID, m.Moves

	s.timers[gameID] = time.AfterFunc(delay, func() {
		s.logger.Debug("playing for player",
			zap.String("game_id", gameID),
			zap.String("player_id", current.ID),
			zap.String("card", card.ID()),
			zap.Bool("bot", current.IsBot),
		)
		s.play(gameID, action, moves)
	})
}

// Cancel drops the pending turn of a match
func (s *Scheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel(gameID)
}

func (s *Scheduler) cancel(gameID string) {
	if t, ok := s.timers[gameID]; ok {
		t.Stop()
		delete(s.timers, gameID)
	}
}

// Forget drops the pending turn of a match and everything known about it
func (s *Scheduler) Forget(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel(gameID)
	delete(s.armed, gameID)
}

// Pending reports whether a turn is scheduled for the match
func (s *Scheduler) Pending(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[gameID]
	return ok
}

// Stop cancels everything and refuses new work
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.timers {
		s.cancel(id)
	}
	s.closed = true
}
