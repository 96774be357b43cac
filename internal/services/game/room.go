package game

import (
	"log/slog"
	"slices"
	"time"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/letters"
)

// Stage is where a room is in its lifecycle
type Stage string

const (
	StageOpen      Stage = "open"
	StagePreparing Stage = "preparing"
	StageTurn      Stage = "turn"
	StageResolving Stage = "resolving"
)

// Room is a fixed-capacity group of sessions taking turns. It is owned by
// the Manager and only touched from the manager's loop.
type Room struct {
	id       string
	capacity int
	logger   *slog.Logger

	// members and players are parallel; index is seat and turn order
	members []Participant
	players []model.Player

	turnIndex int
	stage     Stage

	// seating when the pending word was submitted; damage seats refer to it
	resolving []Participant

	// one outstanding timer per room; gen invalidates stale firings
	timer clock.Timer
	gen   uint64
}

// RoomSummary is a read-only view of a room
type RoomSummary struct {
	ID       string         `json:"id"`
	Players  []model.Player `json:"players"`
	Capacity int            `json:"capacity"`
	Started  bool           `json:"started"`
	Stage    Stage          `json:"stage"`
	TurnSeat int            `json:"turn_seat"`
}

func newRoom(id string, capacity int, logger *slog.Logger) *Room {
	return &Room{
		id:       id,
		capacity: capacity,
		stage:    StageOpen,
		logger:   logger.With(slog.String("room", id)),
	}
}

// ID returns the room's identifier
func (r *Room) ID() string { return r.id }

// Started reports whether the game has begun
func (r *Room) Started() bool { return r.stage != StageOpen }

// Size returns the live membership count
func (r *Room) Size() int { return len(r.members) }

// TurnIndex returns the seat whose turn it is
func (r *Room) TurnIndex() int { return r.turnIndex }

// isFull is true once the room has started or reached capacity
func (r *Room) isFull() bool {
	return r.Started() || len(r.members) >= r.capacity
}

// seatOf resolves a participant to its current seat, or -1
func (r *Room) seatOf(p Participant) int {
	return slices.Index(r.members, p)
}

func (r *Room) hasPlayer(id model.PlayerID) bool {
	return slices.ContainsFunc(r.players, func(pl model.Player) bool { return pl.ID == id })
}

func (r *Room) isTurnOf(p Participant) bool {
	seat := r.seatOf(p)
	return seat >= 0 && seat == r.turnIndex
}

// addPlayer seats p unless it is already present or the room is full
func (r *Room) addPlayer(p Participant) bool {
	if r.isFull() || r.seatOf(p) >= 0 {
		return false
	}
	r.members = append(r.members, p)
	r.players = append(r.players, p.Player())
	return true
}

// startGame deals a rack to every member and opens the preparation countdown
func (r *Room) startGame(bag *letters.Bag, rackSize int, preparation time.Duration) {
	r.stage = StagePreparing
	r.turnIndex = 0
	players := slices.Clone(r.players)
	for _, m := range r.members {
		m.Notify(protocol.NewStartPreparationTime(seconds(preparation), players, bag.Draw(rackSize)))
	}
}

// beginTurn hands the turn to the current seat
func (r *Room) beginTurn(turn time.Duration) {
	r.stage = StageTurn
	r.resolving = nil
	r.broadcast(protocol.NewNextTurn(r.turnIndex, seconds(turn)))
}

// increaseTurnIndex advances to the next seat
func (r *Room) increaseTurnIndex(turn time.Duration) {
	if len(r.members) == 0 {
		return
	}
	r.turnIndex = (r.turnIndex + 1) % len(r.members)
	r.beginTurn(turn)
}

// onWordCreated announces the word and asks the submitter to check it
func (r *Room) onWordCreated(p Participant, word string) {
	seat := r.seatOf(p)
	if seat < 0 {
		return
	}
	r.stage = StageResolving
	r.resolving = slices.Clone(r.members)
	r.broadcast(protocol.NewWordCreated(seat, word))
	p.CheckWord(WordCheck{Seat: seat, Word: word, Seats: len(r.members)})
}

// resolveTarget maps a seat numbered against the submission-time seating to
// that player's current seat, or -1 once the player has left
func (r *Room) resolveTarget(seat int) int {
	if seat < 0 || seat >= len(r.resolving) {
		return -1
	}
	return r.seatOf(r.resolving[seat])
}

// onDamagePlayer hits one seat and tells everyone. Seats past the current
// bound are ignored.
func (r *Room) onDamagePlayer(seat, damage int) bool {
	if seat < 0 || seat >= len(r.members) {
		return false
	}
	r.members[seat].Notify(protocol.NewTakeDamage(damage))
	r.broadcast(protocol.NewDamagePlayer(seat, damage))
	return true
}

// removeSeat drops a seat, renumbering everyone after it, and reports
// whether the seat held the turn
func (r *Room) removeSeat(seat int) (wasTurn bool) {
	wasTurn = seat == r.turnIndex
	r.members = slices.Delete(r.members, seat, seat+1)
	r.players = slices.Delete(r.players, seat, seat+1)

	switch {
	case len(r.members) == 0:
		r.turnIndex = 0
	case seat < r.turnIndex:
		r.turnIndex--
	case r.turnIndex >= len(r.members):
		r.turnIndex = 0
	}
	return wasTurn
}

// drained is true for a started room that can no longer be played
func (r *Room) drained() bool {
	return r.Started() && len(r.members) <= 1
}

func (r *Room) broadcast(ev protocol.Event) {
	for _, m := range r.members {
		m.Notify(ev)
	}
}

// arm replaces the room's timer; fire receives the new generation
func (r *Room) arm(clk clock.Clock, d time.Duration, fire func(gen uint64)) {
	r.disarm()
	gen := r.gen
	r.timer = clk.AfterFunc(d, func() { fire(gen) })
}

// disarm cancels any outstanding timer and invalidates its generation
func (r *Room) disarm() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

// live reports whether a timer firing with gen is still current
func (r *Room) live(gen uint64) bool {
	return r.timer != nil && gen == r.gen
}

func (r *Room) summary() RoomSummary {
	return RoomSummary{
		ID:       r.id,
		Players:  slices.Clone(r.players),
		Capacity: r.capacity,
		Started:  r.Started(),
		Stage:    r.stage,
		TurnSeat: r.turnIndex,
	}
}
