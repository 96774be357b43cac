package game

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/letters"
)

// Manager owns every room. All room state is touched only from Run, so
// timer expiries and player actions for a room are applied one at a time.
type Manager struct {
	cfg    Config
	bag    *letters.Bag
	clock  clock.Clock
	logger *slog.Logger

	inbox   chan any
	stopped chan struct{}

	// newest last; matchmaking only looks at the last room
	rooms []*Room
}

// NewManager creates a new room manager. Call Run to start it.
func NewManager(cfg Config, bag *letters.Bag, clk clock.Clock, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		bag:     bag,
		clock:   clk,
		logger:  logger.With(slog.String("component", "room_manager")),
		inbox:   make(chan any, cfg.InboxSize),
		stopped: make(chan struct{}),
	}
}

var _ Router = (*Manager)(nil)

// Run processes messages until ctx is cancelled
func (m *Manager) Run(ctx context.Context) {
	m.logger.Info("room manager started")
	defer close(m.stopped)

	for {
		select {
		case <-ctx.Done():
			for _, r := range m.rooms {
				r.disarm()
			}
			m.logger.Info("room manager stopped", slog.Int("rooms", len(m.rooms)))
			return
		case msg := <-m.inbox:
			m.handle(msg)
		}
	}
}

func (m *Manager) post(msg any) {
	select {
	case m.inbox <- msg:
	case <-m.stopped:
	}
}

// Join matches p into the newest open room
func (m *Manager) Join(p Participant) { m.post(joinMsg{p: p}) }

// CreateWord submits a word for p's current turn
func (m *Manager) CreateWord(p Participant, word string) {
	m.post(createWordMsg{p: p, word: word})
}

// NextTurn ends p's turn after its word was resolved
func (m *Manager) NextTurn(p Participant) { m.post(nextTurnMsg{p: p}) }

// DamagePlayer applies p's confirmed word to a seat
func (m *Manager) DamagePlayer(p Participant, seat, damage int) {
	m.post(damagePlayerMsg{p: p, seat: seat, damage: damage})
}

// PlayerEliminated removes p from its room's rotation
func (m *Manager) PlayerEliminated(p Participant) { m.post(eliminatedMsg{p: p}) }

// Leave removes p after its connection closed
func (m *Manager) Leave(p Participant) { m.post(leaveMsg{p: p}) }

// Rooms returns a summary of every room
func (m *Manager) Rooms(ctx context.Context) ([]RoomSummary, error) {
	reply := make(chan []RoomSummary, 1)
	select {
	case m.inbox <- snapshotMsg{reply: reply}:
	case <-m.stopped:
		return nil, model.ErrManagerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case rooms := <-reply:
		return rooms, nil
	case <-m.stopped:
		return nil, model.ErrManagerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) handle(msg any) {
	switch msg := msg.(type) {
	case joinMsg:
		m.join(msg.p)
	case createWordMsg:
		m.createWord(msg.p, msg.word)
	case nextTurnMsg:
		m.nextTurn(msg.p)
	case damagePlayerMsg:
		m.damagePlayer(msg.p, msg.seat, msg.damage)
	case eliminatedMsg:
		m.eliminate(msg.p)
	case leaveMsg:
		m.leave(msg.p)
	case timerMsg:
		m.timerFired(msg.room, msg.gen)
	case snapshotMsg:
		rooms := make([]RoomSummary, 0, len(m.rooms))
		for _, r := range m.rooms {
			rooms = append(rooms, r.summary())
		}
		msg.reply <- rooms
	}
}

func (m *Manager) join(p Participant) {
	player := p.Player()
	if m.findRoom(p) != nil || m.seated(player.ID) {
		m.logger.Debug("join ignored, already seated", slog.String("player_id", string(player.ID)))
		return
	}

	var room *Room
	if n := len(m.rooms); n > 0 && !m.rooms[n-1].isFull() {
		room = m.rooms[n-1]
	} else {
		room = newRoom(uuid.NewString(), m.cfg.MaxPlayers, m.logger)
		m.rooms = append(m.rooms, room)
		room.logger.Info("room opened", slog.Int("capacity", m.cfg.MaxPlayers))
	}

	room.addPlayer(p)
	room.logger.Info("player joined",
		slog.String("player_id", string(player.ID)),
		slog.Int("seat", room.seatOf(p)),
	)

	if room.isFull() {
		room.arm(m.clock, m.cfg.PreparationDuration, m.timerCallback(room))
		room.startGame(m.bag, m.cfg.RackSize, m.cfg.PreparationDuration)
		room.logger.Info("game started", slog.Int("players", room.Size()))
	}
}

func (m *Manager) createWord(p Participant, word string) {
	room := m.findRoom(p)
	if room == nil || room.stage != StageTurn || !room.isTurnOf(p) {
		m.logger.Debug("word dropped, not this player's turn", slog.String("player_id", string(p.Player().ID)))
		return
	}

	// The submission now owns the turn; it ends via NextTurn from the submitter
	room.disarm()
	room.onWordCreated(p, word)
}

func (m *Manager) nextTurn(p Participant) {
	room := m.findRoom(p)
	if room == nil || room.stage != StageResolving || !room.isTurnOf(p) {
		return
	}
	m.advance(room)
}

func (m *Manager) damagePlayer(p Participant, seat, damage int) {
	room := m.findRoom(p)
	if room == nil || room.stage != StageResolving || !room.isTurnOf(p) {
		return
	}
	target := room.resolveTarget(seat)
	if target < 0 || target == room.seatOf(p) {
		room.logger.Debug("damage dropped, target no longer seated", slog.Int("seat", seat))
		return
	}
	room.onDamagePlayer(target, damage)
}

func (m *Manager) eliminate(p Participant) {
	room := m.findRoom(p)
	if room == nil || !room.Started() {
		return
	}
	seat := room.seatOf(p)
	room.logger.Info("player eliminated",
		slog.String("player_id", string(p.Player().ID)),
		slog.Int("seat", seat),
	)
	m.removeSeat(room, seat)
	p.Notify(protocol.NewPlayerEliminated(seat))
}

func (m *Manager) leave(p Participant) {
	room := m.findRoom(p)
	if room == nil {
		return
	}
	seat := room.seatOf(p)
	room.logger.Info("player left",
		slog.String("player_id", string(p.Player().ID)),
		slog.Int("seat", seat),
	)

	if !room.Started() {
		room.removeSeat(seat)
		if room.Size() == 0 {
			m.removeRoom(room)
		}
		return
	}
	m.removeSeat(room, seat)
}

// removeSeat takes a seat out of a started room and keeps the rotation valid
func (m *Manager) removeSeat(room *Room, seat int) {
	wasTurn := room.removeSeat(seat)
	room.broadcast(protocol.NewPlayerEliminated(seat))

	if room.drained() {
		room.disarm()
		m.removeRoom(room)
		room.logger.Info("room closed", slog.Int("survivors", room.Size()))
		return
	}

	if wasTurn && (room.stage == StageTurn || room.stage == StageResolving) {
		// turnIndex already points at the seat that moved into the gap
		room.arm(m.clock, m.cfg.TurnDuration, m.timerCallback(room))
		room.beginTurn(m.cfg.TurnDuration)
	}
}

func (m *Manager) timerFired(room *Room, gen uint64) {
	if !room.live(gen) {
		return
	}
	room.timer = nil

	switch room.stage {
	case StagePreparing:
		room.arm(m.clock, m.cfg.TurnDuration, m.timerCallback(room))
		room.beginTurn(m.cfg.TurnDuration)
	case StageTurn:
		room.logger.Debug("turn expired", slog.Int("seat", room.TurnIndex()))
		m.advance(room)
	}
}

func (m *Manager) advance(room *Room) {
	room.arm(m.clock, m.cfg.TurnDuration, m.timerCallback(room))
	room.increaseTurnIndex(m.cfg.TurnDuration)
}

func (m *Manager) timerCallback(room *Room) func(gen uint64) {
	return func(gen uint64) {
		m.post(timerMsg{room: room, gen: gen})
	}
}

// findRoom locates the room seating p
func (m *Manager) findRoom(p Participant) *Room {
	for _, r := range m.rooms {
		if r.seatOf(p) >= 0 {
			return r
		}
	}
	return nil
}

func (m *Manager) seated(id model.PlayerID) bool {
	return slices.ContainsFunc(m.rooms, func(r *Room) bool { return r.hasPlayer(id) })
}

func (m *Manager) removeRoom(room *Room) {
	m.rooms = slices.DeleteFunc(m.rooms, func(r *Room) bool { return r == room })
}
