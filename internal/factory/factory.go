package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/spellfight/internal/dependencies/clock"
	"github.com/mcoot/spellfight/internal/dependencies/random"
	"github.com/mcoot/spellfight/internal/services/auth"
	"github.com/mcoot/spellfight/internal/services/dictionary"
	"github.com/mcoot/spellfight/internal/services/game"
	"github.com/mcoot/spellfight/internal/services/identity"
	"github.com/mcoot/spellfight/internal/services/letters"
	"github.com/mcoot/spellfight/internal/services/users"
	"github.com/mcoot/spellfight/internal/storage"
	"github.com/mcoot/spellfight/internal/storage/memory"
	redisstorage "github.com/mcoot/spellfight/internal/storage/redis"
	sqlitestorage "github.com/mcoot/spellfight/internal/storage/sqlite"
	"github.com/mcoot/spellfight/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService       *auth.Service
	Users             *users.Service
	Facebook          *identity.Facebook
	Resolver          identity.Resolver
	Words             *dictionary.WordList
	Checker           dictionary.Checker
	Bag               *letters.Bag
	Manager           *game.Manager
	Sessions          *game.SessionFactory
	Socket            *ws.Handler

	logger  *slog.Logger
	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds database settings (optional, defaults used if nil)
	SQLiteConfig *sqlitestorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields take auth.DefaultConfig() values
	AuthConfig auth.Config
	// GameConfig holds room and turn settings (optional)
	GameConfig game.Config
	// DictionaryConfig configures the online dictionary (optional)
	DictionaryConfig dictionary.HTTPConfig
	// DictionaryPath is a word list consulted after the online dictionary (optional)
	DictionaryPath string
	// WordCacheTTL is how long confirmed words stay cached in Redis
	WordCacheTTL time.Duration
	// FacebookConfig configures the Graph API client (optional)
	FacebookConfig identity.FacebookConfig
	// SocketConfig configures websocket connections (optional)
	SocketConfig ws.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store       storage.Storage
		redisClient *redis.Client
		closers     []io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		redisClient = redisStore.Client()
		closers = append(closers, redisStore)
	case StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		sqliteStore, err := sqlitestorage.New(sqliteCfg)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Word list, if any, backs up the online dictionary
	words := dictionary.NewWordList(store, logger)
	if cfg.DictionaryPath != "" {
		if _, err := words.ImportFile(context.Background(), cfg.DictionaryPath); err != nil {
			logger.Warn("could not import word list",
				slog.String("path", cfg.DictionaryPath),
				slog.Any("error", err),
			)
		}
	} else if err := words.Restore(context.Background()); err == nil {
		logger.Info("restored word list", slog.Int("words", words.Len()))
	}

	dictCfg := cfg.DictionaryConfig
	if dictCfg.BaseURL == "" {
		dictCfg.BaseURL = dictionary.DefaultHTTPConfig().BaseURL
	}
	if dictCfg.Timeout == 0 {
		dictCfg.Timeout = dictionary.DefaultHTTPConfig().Timeout
	}
	var online dictionary.Checker = dictionary.NewHTTPChecker(dictCfg, logger)
	if redisClient != nil {
		ttl := cfg.WordCacheTTL
		if ttl == 0 {
			ttl = 7 * 24 * time.Hour
		}
		online = dictionary.NewCachedChecker(online, redisClient, ttl, logger)
	}
	checker := dictionary.AnyOf{online}
	if words.Loaded() {
		checker = append(checker, words)
	}

	app := newWithDependencies(store, clk, rnd, checker, cfg, logger)
	app.Words = words
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	checker dictionary.Checker,
	cfg Config,
	logger *slog.Logger,
) *App {
	// Use default configs if not provided
	gameCfg := cfg.GameConfig
	if gameCfg.MaxPlayers == 0 {
		gameCfg = game.DefaultConfig()
	}
	fbCfg := cfg.FacebookConfig
	if fbCfg.GraphURL == "" {
		defaults := identity.DefaultFacebookConfig()
		fbCfg.GraphURL = defaults.GraphURL
		if fbCfg.Timeout == 0 {
			fbCfg.Timeout = defaults.Timeout
		}
	}
	socketCfg := cfg.SocketConfig
	if socketCfg.PingPeriod == 0 {
		socketCfg = ws.DefaultConfig()
	}

	// Create services
	authService := auth.New(store, clk, cfg.AuthConfig, logger)
	userService := users.New(store, clk, users.DefaultConfig(), logger)
	facebook := identity.NewFacebook(fbCfg, logger)
	resolver := identity.Chain{authService, facebook}
	bag := letters.NewBag(rnd)
	manager := game.NewManager(gameCfg, bag, clk, logger)
	sessions := game.NewSessionFactory(manager, bag, checker, rnd, clk, gameCfg, logger)
	socket := ws.NewHandler(resolver, userService, sessions, socketCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		AuthService: authService,
		Users:       userService,
		Facebook:    facebook,
		Resolver:    resolver,
		Checker:     checker,
		Bag:         bag,
		Manager:     manager,
		Sessions:    sessions,
		Socket:      socket,
		logger:      logger,
	}
}

// sessionSweepInterval is how often expired login sessions are dropped
const sessionSweepInterval = 10 * time.Minute

// Run drives the room manager and periodic housekeeping until ctx is done
func (a *App) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Manager.Run(ctx)
	}()

	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			a.Users.Wait()
			return
		case <-ticker.C:
			if n := a.AuthService.CleanExpiredSessions(); n > 0 {
				a.logger.Debug("dropped expired sessions", slog.Int("count", n))
			}
		}
	}
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
