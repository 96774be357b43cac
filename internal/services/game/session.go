package game

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/dependencies/random"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/dictionary"
	"github.com/mcoot/spellfight/internal/services/letters"
)

// SessionFactory builds sessions sharing one set of collaborators
type SessionFactory struct {
	router  Router
	bag     *letters.Bag
	checker dictionary.Checker
	random  random.Random
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// NewSessionFactory creates a new SessionFactory
func NewSessionFactory(
	router Router,
	bag *letters.Bag,
	checker dictionary.Checker,
	rnd random.Random,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *SessionFactory {
	return &SessionFactory{
		router:  router,
		bag:     bag,
		checker: checker,
		random:  rnd,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// Create returns a new session for player. Call Run to start it.
func (f *SessionFactory) Create(player model.Player) *Session {
	return &Session{
		player:  player,
		router:  f.router,
		bag:     f.bag,
		checker: f.checker,
		random:  f.random,
		clock:   f.clock,
		cfg:     f.cfg,
		logger: f.logger.With(
			slog.String("component", "session"),
			slog.String("player_id", string(player.ID)),
		),
		inbox:  make(chan any, f.cfg.InboxSize),
		outbox: make(chan protocol.Event, f.cfg.InboxSize),
		done:   make(chan struct{}),
		health: f.cfg.StartingHealth,
	}
}

// confirmedWord is a validated submission waiting for its dice roll
type confirmedWord struct {
	word     string
	target   int
	damage   int
	rackSize int
}

// Session is one connected player. It owns the player's rack and health and
// handles one message at a time on its own goroutine.
type Session struct {
	player  model.Player
	router  Router
	bag     *letters.Bag
	checker dictionary.Checker
	random  random.Random
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	inbox     chan any
	outbox    chan protocol.Event
	done      chan struct{}
	closeOnce sync.Once

	// loop-owned state
	health     int
	rack       model.Rack
	phase      protocol.EventType // last event sent to the client; empty until joined
	pending    *confirmedWord
	diceTimer  clock.Timer
	diceGen    uint64
	eliminated bool
}

var _ Participant = (*Session)(nil)

// Player returns the session's identity
func (s *Session) Player() model.Player { return s.player }

// Events streams events for the client. It is closed when the session ends.
func (s *Session) Events() <-chan protocol.Event { return s.outbox }

// Submit hands a client intent to the session
func (s *Session) Submit(intent protocol.Intent) { s.post(intentMsg{intent: intent}) }

// Notify implements Participant
func (s *Session) Notify(ev protocol.Event) { s.post(eventMsg{ev: ev}) }

// CheckWord implements Participant
func (s *Session) CheckWord(check WordCheck) { s.post(checkWordMsg{check: check}) }

// Close ends the session; safe to call more than once
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) post(msg any) {
	select {
	case s.inbox <- msg:
	case <-s.done:
	}
}

// Run processes messages until the session is closed or ctx is cancelled.
// On exit the player leaves its room and Events is closed.
func (s *Session) Run(ctx context.Context) {
	s.logger.Info("session started")

	// Close also aborts an in-flight dictionary lookup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
		case <-ctx.Done():
		}
		cancel()
	}()

	defer func() {
		s.stopDiceTimer()
		s.router.Leave(s)
		close(s.outbox)
		s.logger.Info("session ended", slog.Int("health", s.health))
	}()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.done:
			return
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		}
	}
}

func (s *Session) handle(ctx context.Context, msg any) {
	switch msg := msg.(type) {
	case intentMsg:
		s.handleIntent(msg.intent)
	case eventMsg:
		s.handleEvent(msg.ev)
	case checkWordMsg:
		s.checkWord(ctx, msg.check)
	case diceExpiredMsg:
		if msg.gen == s.diceGen && s.diceTimer != nil {
			s.diceTimer = nil
			s.rollDice()
		}
	}
}

// handleIntent gates client intents on the phase marker; anything out of
// phase is dropped
func (s *Session) handleIntent(intent protocol.Intent) {
	if s.eliminated {
		return
	}

	switch intent.Type {
	case protocol.IntentJoin:
		if s.phase == "" {
			s.router.Join(s)
		}
	case protocol.IntentCreateWord:
		if s.phase == protocol.EventNextTurn {
			s.router.CreateWord(s, intent.Word)
		}
	case protocol.IntentRollDice:
		if s.phase == protocol.EventCanRollDice && s.pending != nil {
			s.stopDiceTimer()
			s.rollDice()
		}
	}
}

func (s *Session) handleEvent(ev protocol.Event) {
	switch content := ev.Content.(type) {
	case protocol.StartPreparationTime:
		s.rack = content.InitialLetters.Clone()
	case protocol.NextTurn:
		s.stopDiceTimer()
		s.pending = nil
	case protocol.TakeDamage:
		s.health -= content.Damage
		if s.health < 0 {
			s.health = 0
		}
	}

	s.emit(ev)

	if ev.Type == protocol.EventTakeDamage && s.health == 0 && !s.eliminated {
		s.eliminated = true
		s.router.PlayerEliminated(s)
	}
}

// checkWord validates the submitted word against the rack and dictionary
func (s *Session) checkWord(ctx context.Context, check WordCheck) {
	target, ok := s.pickTarget(check)
	ok = ok && letters.HasLetters(s.rack, check.Word) && s.lookup(ctx, check.Word)
	if ctx.Err() != nil {
		return
	}
	if ok {
		s.pending = &confirmedWord{
			word:     check.Word,
			target:   target,
			damage:   letters.Score(check.Word),
			rackSize: len(s.rack),
		}
		s.armDiceTimer()
		s.emit(protocol.NewCanRollDice(seconds(s.cfg.RollDiceDuration)))
		return
	}

	s.logger.Debug("word rejected", slog.String("word", check.Word))
	s.router.NextTurn(s)
}

func (s *Session) lookup(ctx context.Context, word string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LookupTimeout)
	defer cancel()
	return s.checker.Exists(ctx, strings.ToLower(word))
}

// pickTarget draws a uniformly random seat other than the submitter's
func (s *Session) pickTarget(check WordCheck) (int, bool) {
	if check.Seats < 2 || check.Seat < 0 || check.Seat >= check.Seats {
		return 0, false
	}
	target := s.random.Intn(check.Seats - 1)
	if target >= check.Seat {
		target++
	}
	return target, true
}

// rollDice spends the word, refills the rack and reports the hit
func (s *Session) rollDice() {
	w := s.pending
	if w == nil {
		return
	}
	s.pending = nil

	s.rack = s.bag.Refill(letters.Spend(s.rack, w.word), w.rackSize)
	s.emit(protocol.NewDiceRolled(w.target, s.rack.Clone()))

	s.router.DamagePlayer(s, w.target, w.damage)
	s.router.NextTurn(s)
}

func (s *Session) armDiceTimer() {
	s.stopDiceTimer()
	gen := s.diceGen
	s.diceTimer = s.clock.AfterFunc(s.cfg.RollDiceDuration, func() {
		s.post(diceExpiredMsg{gen: gen})
	})
}

// stopDiceTimer cancels any pending dice timer and invalidates its generation
func (s *Session) stopDiceTimer() {
	if s.diceTimer != nil {
		s.diceTimer.Stop()
		s.diceTimer = nil
	}
	s.diceGen++
}

// emit records the phase marker and queues the event for the client. A client
// that cannot keep up is disconnected.
func (s *Session) emit(ev protocol.Event) {
	s.phase = ev.Type
	select {
	case s.outbox <- ev:
	default:
		s.logger.Warn("client outbox full, closing session")
		s.Close()
	}
}
