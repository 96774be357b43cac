package game

import "time"

// Config holds the rules of a match
type Config struct {
	// MaxPlayers is the room capacity; a room starts once it is full
	MaxPlayers int

	TurnDuration        time.Duration
	RollDiceDuration    time.Duration
	PreparationDuration time.Duration

	// RackSize is the number of letters each player holds
	RackSize int

	StartingHealth int

	// LookupTimeout bounds a single dictionary check
	LookupTimeout time.Duration

	// InboxSize is the buffer of every session and manager mailbox
	InboxSize int
}

// DefaultConfig returns the standard match rules
func DefaultConfig() Config {
	return Config{
		MaxPlayers:          2,
		TurnDuration:        30 * time.Second,
		RollDiceDuration:    10 * time.Second,
		PreparationDuration: 5 * time.Second,
		RackSize:            7,
		StartingHealth:      100,
		LookupTimeout:       5 * time.Second,
		InboxSize:           256,
	}
}

// seconds converts a duration into the whole-second countdown sent to clients
func seconds(d time.Duration) int {
	return int(d / time.Second)
}
