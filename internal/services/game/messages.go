package game

import (
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
)

// Participant is the manager's handle on a player session. Rooms compare
// participants by identity, never by value.
type Participant interface {
	Player() model.Player
	// Notify forwards an event to the player
	Notify(ev protocol.Event)
	// CheckWord asks the submitting player's session to validate its word
	CheckWord(check WordCheck)
}

// WordCheck is the room's instruction to validate a submitted word
type WordCheck struct {
	Seat int
	Word string
	// Seats is the live membership at submission time; damage targets are
	// drawn from it
	Seats int
}

// Router is the manager as seen by a session
type Router interface {
	Join(p Participant)
	CreateWord(p Participant, word string)
	NextTurn(p Participant)
	DamagePlayer(p Participant, seat, damage int)
	PlayerEliminated(p Participant)
	Leave(p Participant)
}

// Manager mailbox messages

type joinMsg struct{ p Participant }

type createWordMsg struct {
	p    Participant
	word string
}

type nextTurnMsg struct{ p Participant }

type damagePlayerMsg struct {
	p      Participant
	seat   int
	damage int
}

type eliminatedMsg struct{ p Participant }

type leaveMsg struct{ p Participant }

// timerMsg is posted when a room timer fires; stale generations are ignored
type timerMsg struct {
	room *Room
	gen  uint64
}

type snapshotMsg struct{ reply chan []RoomSummary }

// Session mailbox messages

type intentMsg struct{ intent protocol.Intent }

type eventMsg struct{ ev protocol.Event }

type checkWordMsg struct{ check WordCheck }

type diceExpiredMsg struct{ gen uint64 }
