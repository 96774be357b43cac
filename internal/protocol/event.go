package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/spellfight/internal/model"
)

// EventType identifies a server event
type EventType string

const (
	EventStartPreparationTime EventType = "StartPreparationTime"
	EventNextTurn             EventType = "NextTurn"
	EventWordCreated          EventType = "WordCreated"
	EventCanRollDice          EventType = "CanRollDice"
	EventDiceRolled           EventType = "DiceRolledResponse"
	EventDamagePlayer         EventType = "DamagePlayer"
	EventTakeDamage           EventType = "TakeDamage"
	EventPlayerEliminated     EventType = "PlayerEliminated"
)

// Event is a server-to-client message. Content holds one of the payload
// types below, matching Type.
type Event struct {
	Type    EventType
	Content any
}

// StartPreparationTime opens a game: every member learns the seating and
// their own starting rack
type StartPreparationTime struct {
	Seconds        int            `json:"seconds"`
	Players        []model.Player `json:"players"`
	InitialLetters model.Rack     `json:"initial_letters"`
}

// NextTurn announces whose turn it is
type NextTurn struct {
	SeatIndex int `json:"seat_index"`
	Seconds   int `json:"seconds"`
}

// WordCreated announces a submitted word before it is checked
type WordCreated struct {
	SeatIndex int    `json:"seat_index"`
	Word      string `json:"word"`
}

// CanRollDice tells the submitter their word was confirmed
type CanRollDice struct {
	Seconds int `json:"seconds"`
}

// DiceRolled carries the submitter's replenished rack
type DiceRolled struct {
	TargetSeat int        `json:"target_seat"`
	NewLetters model.Rack `json:"new_letters"`
}

// DamagePlayer is broadcast when a seat is hit
type DamagePlayer struct {
	SeatIndex int `json:"seat_index"`
	Damage    int `json:"damage"`
}

// TakeDamage is sent only to the damaged seat
type TakeDamage struct {
	Damage int `json:"damage"`
}

// PlayerEliminated is broadcast when a seat leaves the rotation
type PlayerEliminated struct {
	SeatIndex int `json:"seat_index"`
}

// MarshalJSON encodes the event as {"type": ..., "content": ...}
func (e Event) MarshalJSON() ([]byte, error) {
	content, err := json.Marshal(e.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: string(e.Type), Content: content})
}

// DecodeEvent parses a server frame into an Event with a typed Content
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var content any
	switch EventType(env.Type) {
	case EventStartPreparationTime:
		content = &StartPreparationTime{}
	case EventNextTurn:
		content = &NextTurn{}
	case EventWordCreated:
		content = &WordCreated{}
	case EventCanRollDice:
		content = &CanRollDice{}
	case EventDiceRolled:
		content = &DiceRolled{}
	case EventDamagePlayer:
		content = &DamagePlayer{}
	case EventTakeDamage:
		content = &TakeDamage{}
	case EventPlayerEliminated:
		content = &PlayerEliminated{}
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(env.Content, content); err != nil {
		return Event{}, fmt.Errorf("%w: %s content: %w", ErrMalformed, env.Type, err)
	}
	return Event{Type: EventType(env.Type), Content: deref(content)}, nil
}

func deref(v any) any {
	switch c := v.(type) {
	case *StartPreparationTime:
		return *c
	case *NextTurn:
		return *c
	case *WordCreated:
		return *c
	case *CanRollDice:
		return *c
	case *DiceRolled:
		return *c
	case *DamagePlayer:
		return *c
	case *TakeDamage:
		return *c
	case *PlayerEliminated:
		return *c
	}
	return v
}

// Constructors

func NewStartPreparationTime(seconds int, players []model.Player, letters model.Rack) Event {
	return Event{Type: EventStartPreparationTime, Content: StartPreparationTime{Seconds: seconds, Players: players, InitialLetters: letters}}
}

func NewNextTurn(seat, seconds int) Event {
	return Event{Type: EventNextTurn, Content: NextTurn{SeatIndex: seat, Seconds: seconds}}
}

func NewWordCreated(seat int, word string) Event {
	return Event{Type: EventWordCreated, Content: WordCreated{SeatIndex: seat, Word: word}}
}

func NewCanRollDice(seconds int) Event {
	return Event{Type: EventCanRollDice, Content: CanRollDice{Seconds: seconds}}
}

func NewDiceRolled(target int, letters model.Rack) Event {
	return Event{Type: EventDiceRolled, Content: DiceRolled{TargetSeat: target, NewLetters: letters}}
}

func NewDamagePlayer(seat, damage int) Event {
	return Event{Type: EventDamagePlayer, Content: DamagePlayer{SeatIndex: seat, Damage: damage}}
}

func NewTakeDamage(damage int) Event {
	return Event{Type: EventTakeDamage, Content: TakeDamage{Damage: damage}}
}

func NewPlayerEliminated(seat int) Event {
	return Event{Type: EventPlayerEliminated, Content: PlayerEliminated{SeatIndex: seat}}
}
