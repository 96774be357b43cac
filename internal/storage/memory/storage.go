package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
)

// Storage keeps everything in process memory. It is the default backend and
// the one tests run against.
type Storage struct {
	mu       sync.RWMutex
	players  map[model.PlayerID]model.Player
	accounts map[string]model.Account
	words    []string
}

// New creates an empty in-memory store
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]model.Player),
		accounts: make(map[string]model.Account),
	}
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) FindPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) InsertPlayer(ctx context.Context, player model.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; ok {
		return false, nil
	}
	s.players[player.ID] = player
	return true, nil
}

// Players returns the number of stored identities
func (s *Storage) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func (s *Storage) CreateAccount(ctx context.Context, account model.Account, player model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Username]; ok {
		return model.ErrUsernameTaken
	}
	s.accounts[account.Username] = account
	s.players[player.ID] = player
	return nil
}

func (s *Storage) FindAccount(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return &account, nil
}

func (s *Storage) Words(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	return slices.Clone(s.words), nil
}

func (s *Storage) ReplaceWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = append(make([]string, 0, len(words)), words...)
	return nil
}
