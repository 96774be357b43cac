package users

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
)

// Config holds configuration for the users service
type Config struct {
	// SaveTimeout bounds a background save
	SaveTimeout time.Duration
}

// DefaultConfig returns default users configuration
func DefaultConfig() Config {
	return Config{
		SaveTimeout: 5 * time.Second,
	}
}

// Service finds and records player identities in the persistent store
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	wg sync.WaitGroup
}

// New creates a new users service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "users")),
	}
}

// Get returns the stored identity for id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.FindPlayer(ctx, id)
}

// Create stores an identity unless one with the same id already exists.
// It reports whether a new record was written.
func (s *Service) Create(ctx context.Context, player model.Player) (bool, error) {
	if player.CreatedAt.IsZero() {
		player.CreatedAt = s.clock.Now()
	}
	return s.storage.InsertPlayer(ctx, player)
}

// Remember records the identity in the background. Failures are logged
// and never reach the caller.
func (s *Service) Remember(player model.Player) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
		defer cancel()

		created, err := s.Create(ctx, player)
		if err != nil {
			s.logger.Warn("failed to save player",
				slog.String("player_id", string(player.ID)),
				slog.Any("error", err),
			)
			return
		}
		if created {
			s.logger.Info("saved new player",
				slog.String("player_id", string(player.ID)),
				slog.String("provider", player.Provider),
			)
		}
	}()
}

// Wait blocks until all background saves have finished
func (s *Service) Wait() {
	s.wg.Wait()
}
