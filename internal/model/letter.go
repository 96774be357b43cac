package model

import (
	"encoding/json"
	"errors"
	"unicode/utf8"
)

// Letter is a tile: a character plus its fixed point value
type Letter struct {
	Letter rune
	Value  int
}

type letterJSON struct {
	Letter string `json:"letter"`
	Value  int    `json:"value"`
}

// MarshalJSON encodes the character as a one-character string
func (l Letter) MarshalJSON() ([]byte, error) {
	return json.Marshal(letterJSON{Letter: string(l.Letter), Value: l.Value})
}

// UnmarshalJSON decodes a letter written by MarshalJSON
func (l *Letter) UnmarshalJSON(data []byte) error {
	var raw letterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if utf8.RuneCountInString(raw.Letter) != 1 {
		return errors.New("letter must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(raw.Letter)
	l.Letter = r
	l.Value = raw.Value
	return nil
}

// Rack is a player's ordered hand of letters
type Rack []Letter

// String returns the rack's characters in order
func (r Rack) String() string {
	runes := make([]rune, len(r))
	for i, l := range r {
		runes[i] = l.Letter
	}
	return string(runes)
}

// Clone returns a copy of the rack that shares no backing array
func (r Rack) Clone() Rack {
	out := make(Rack, len(r))
	copy(out, r)
	return out
}
