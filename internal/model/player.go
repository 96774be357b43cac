package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Identity providers a Player can originate from
const (
	ProviderGuest    = "guest"
	ProviderLocal    = "local"
	ProviderFacebook = "facebook"
)

// Player is a player's identity. It is created once at authentication
// and never mutated by the game engine.
type Player struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	Avatar      string    `json:"photo"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsGuest reports whether the player has no account behind it
func (p Player) IsGuest() bool {
	return p.Provider == ProviderGuest
}

// Account is a local username/password login. The identity it signs in as
// is stored separately under PlayerID.
type Account struct {
	Username     string    `json:"username"`
	PlayerID     PlayerID  `json:"player_id"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
