package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IntentType identifies a client request
type IntentType string

const (
	IntentJoin       IntentType = "Join"
	IntentCreateWord IntentType = "CreateWord"
	IntentRollDice   IntentType = "RollDice"
)

// Errors
var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Intent is a decoded client request
type Intent struct {
	Type IntentType
	Word string // CreateWord only
}

// envelope is the wire shape shared by intents and events
type envelope struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// DecodeIntent parses a client frame such as {"type":"CreateWord","content":"cat"}
func DecodeIntent(data []byte) (Intent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Intent{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch IntentType(env.Type) {
	case IntentJoin, IntentRollDice:
		return Intent{Type: IntentType(env.Type)}, nil
	case IntentCreateWord:
		var word string
		if err := json.Unmarshal(env.Content, &word); err != nil {
			return Intent{}, fmt.Errorf("%w: CreateWord content: %w", ErrMalformed, err)
		}
		return Intent{Type: IntentCreateWord, Word: word}, nil
	default:
		return Intent{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// MarshalJSON encodes the intent in its wire form
func (i Intent) MarshalJSON() ([]byte, error) {
	env := envelope{Type: string(i.Type)}
	if i.Type == IntentCreateWord {
		content, err := json.Marshal(i.Word)
		if err != nil {
			return nil, err
		}
		env.Content = content
	}
	return json.Marshal(env)
}

// Join requests matchmaking
func Join() Intent { return Intent{Type: IntentJoin} }

// CreateWord submits a word on the player's turn
func CreateWord(word string) Intent { return Intent{Type: IntentCreateWord, Word: word} }

// RollDice resolves a confirmed word
func RollDice() Intent { return Intent{Type: IntentRollDice} }
