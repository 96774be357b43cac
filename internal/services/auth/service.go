package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// Config holds configuration for the auth service
type Config struct {
	// SessionDuration is how long a sign-in token stays valid
	SessionDuration time.Duration
	// BcryptCost is the work factor for new password hashes
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// Session is a signed-in player. Its token is the bearer credential for the
// HTTP API and the websocket.
type Session struct {
	Token     string
	Player    model.Player
	ExpiresAt time.Time
}

// Service signs players in as guests or with local accounts and resolves the
// tokens it hands out
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	// compared against when a username is unknown so both paths cost a hash
	decoy []byte

	mu       sync.Mutex
	sessions map[string]Session
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	decoy, _ := bcrypt.GenerateFromPassword([]byte("spellfight"), cfg.BcryptCost)

	return &Service{
		storage:  storage,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "auth")),
		decoy:    decoy,
		sessions: make(map[string]Session),
	}
}

// Guest creates an identity with no account behind it and signs it in
func (s *Service) Guest(ctx context.Context, profile Profile) (*Session, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	player := s.newPlayer(profile, model.ProviderGuest)
	if _, err := s.storage.InsertPlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save guest: %w", err)
	}
	return s.signIn(player), nil
}

// Register creates a local account with its identity and signs it in
func (s *Service) Register(ctx context.Context, creds Credentials, profile Profile) (*Session, error) {
	profile = profile.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	player := s.newPlayer(profile, model.ProviderLocal)
	account := model.Account{
		Username:     creds.Username,
		PlayerID:     player.ID,
		PasswordHash: string(hash),
		CreatedAt:    player.CreatedAt,
	}
	if err := s.storage.CreateAccount(ctx, account, player); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account registered",
		slog.String("username", creds.Username),
		slog.String("player_id", string(player.ID)),
	)
	return s.signIn(player), nil
}

// Login checks a local account's password and signs its identity in
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	account, err := s.storage.FindAccount(ctx, creds.Username)
	if errors.Is(err, model.ErrAccountNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(creds.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.FindPlayer(ctx, account.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("load identity for %s: %w", creds.Username, err)
	}
	return s.signIn(*player), nil
}

// Resolve maps a token this service issued to its player
func (s *Service) Resolve(ctx context.Context, token string) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, ErrInvalidSession)
	}
	if s.clock.Now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return model.Player{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, ErrInvalidSession)
	}
	return session.Player, nil
}

// Logout forgets token; unknown tokens are ignored
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions drops every expired token and returns how many went
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) newPlayer(profile Profile, provider string) model.Player {
	return model.Player{
		ID:          model.PlayerID(provider + "-" + uuid.NewString()),
		DisplayName: profile.Name,
		Email:       profile.Email,
		Avatar:      profile.Avatar,
		Provider:    provider,
		CreatedAt:   s.clock.Now(),
	}
}

func (s *Service) signIn(player model.Player) *Session {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	session := Session{
		Token:     "sf_" + base64.RawURLEncoding.EncodeToString(b),
		Player:    player,
		ExpiresAt: s.clock.Now().Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return &session
}
