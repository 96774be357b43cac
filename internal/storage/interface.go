package storage

import (
	"context"

	"github.com/mcoot/spellfight/internal/model"
)

// Storage persists player identities, local accounts and the word list.
// Gameplay never waits on it: identities are written in the background and
// the word list is read once at startup.
type Storage interface {
	// FindPlayer returns the identity stored under id, or model.ErrPlayerNotFound
	FindPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// InsertPlayer stores player unless its id is already taken and reports
	// whether it was written
	InsertPlayer(ctx context.Context, player model.Player) (bool, error)

	// CreateAccount stores a login together with the identity it signs in as.
	// It fails with model.ErrUsernameTaken if the username is in use.
	CreateAccount(ctx context.Context, account model.Account, player model.Player) error
	// FindAccount returns the login for username, or model.ErrAccountNotFound
	FindAccount(ctx context.Context, username string) (*model.Account, error)

	// Words returns the stored word list, or model.ErrDictionaryNotLoaded
	Words(ctx context.Context) ([]string, error)
	// ReplaceWords swaps the whole word list for words
	ReplaceWords(ctx context.Context, words []string) error
}
