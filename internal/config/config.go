package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcoot/spellfight/internal/services/game"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

const defaultEnvFile = ".env.json"

// Config holds server settings loaded from the environment
type Config struct {
	Port        int
	StorageType string
	RedisURL    string
	SQLitePath  string

	// DictionaryURL overrides the online dictionary endpoint
	DictionaryURL string
	// DictionaryPath is an optional word list used when the online
	// dictionary is unreachable
	DictionaryPath string

	FacebookClientID     string
	FacebookClientSecret string
	FacebookRedirectURI  string

	Game game.Config
}

// Load reads the process environment. Keys in the JSON file named by
// ENV_FILE (default .env.json) fill in variables that are unset.
func Load() (Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = defaultEnvFile
	}
	return load(os.LookupEnv, path)
}

type lookupFunc func(key string) (string, bool)

func load(lookup lookupFunc, envFile string) (Config, error) {
	file, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}

	get := func(key, fallback string) string {
		if val, ok := lookup(key); ok && val != "" {
			return val
		}
		if val, ok := file[key]; ok && val != "" {
			return val
		}
		return fallback
	}

	cfg := Config{
		StorageType:          get("STORAGE_TYPE", StorageMemory),
		RedisURL:             get("REDIS_URL", ""),
		SQLitePath:           get("SQLITE_PATH", ""),
		DictionaryURL:        get("DICTIONARY_URL", ""),
		DictionaryPath:       get("DICTIONARY_PATH", ""),
		FacebookClientID:     get("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: get("FACEBOOK_CLIENT_SECRET", ""),
		FacebookRedirectURI:  get("FACEBOOK_REDIRECT_URI", ""),
		Game:                 game.DefaultConfig(),
	}

	var errs []error
	intVar := func(key string, fallback int) int {
		raw := get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be a positive integer, got %q", key, raw))
			return fallback
		}
		return v
	}
	seconds := func(key string, fallback time.Duration) time.Duration {
		return time.Duration(intVar(key, int(fallback/time.Second))) * time.Second
	}

	cfg.Port = intVar("PORT", 8080)
	cfg.Game.MaxPlayers = intVar("MAX_PLAYERS", cfg.Game.MaxPlayers)
	cfg.Game.RackSize = intVar("RACK_SIZE", cfg.Game.RackSize)
	cfg.Game.TurnDuration = seconds("TURN_SECONDS", cfg.Game.TurnDuration)
	cfg.Game.RollDiceDuration = seconds("ROLL_DICE_SECONDS", cfg.Game.RollDiceDuration)
	cfg.Game.PreparationDuration = seconds("PREPARATION_SECONDS", cfg.Game.PreparationDuration)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that cannot be defaulted
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}

	if c.Game.MaxPlayers < 2 {
		return fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", c.Game.MaxPlayers)
	}
	return nil
}

// readEnvFile reads a flat JSON object of string values. A missing file
// yields no values.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}
