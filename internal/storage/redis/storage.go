package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/storage"
)

// Storage keeps identities, accounts and the word list in Redis
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects to cfg.URL and checks the server answers
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Client returns the underlying client so other components can share the pool
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

// ttlFor expires guests; everyone else is kept
func (s *Storage) ttlFor(player model.Player) time.Duration {
	if player.IsGuest() {
		return s.cfg.GuestPlayerTTL
	}
	return 0
}

func (s *Storage) FindPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("decode player %s: %w", id, err)
	}
	return &player, nil
}

func (s *Storage) InsertPlayer(ctx context.Context, player model.Player) (bool, error) {
	data, err := json.Marshal(player)
	if err != nil {
		return false, err
	}
	return s.client.SetNX(ctx, playerKey(player.ID), data, s.ttlFor(player)).Result()
}

func (s *Storage) CreateAccount(ctx context.Context, account model.Account, player model.Player) error {
	key := accountKey(account.Username)
	claimed, err := s.client.HSetNX(ctx, key, "player_id", string(account.PlayerID)).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"password_hash", account.PasswordHash,
			"created_at", account.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.Set(ctx, playerKey(player.ID), data, 0)
		return nil
	})
	if err != nil {
		// release the username so the signup can be retried
		s.client.Del(context.WithoutCancel(ctx), key)
		return err
	}
	return nil
}

func (s *Storage) FindAccount(ctx context.Context, username string) (*model.Account, error) {
	fields, err := s.client.HGetAll(ctx, accountKey(username)).Result()
	if err != nil {
		return nil, err
	}
	if fields["password_hash"] == "" {
		return nil, model.ErrAccountNotFound
	}

	account := &model.Account{
		Username:     username,
		PlayerID:     model.PlayerID(fields["player_id"]),
		PasswordHash: fields["password_hash"],
	}
	if ts := fields["created_at"]; ts != "" {
		if account.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("decode account %s: %w", username, err)
		}
	}
	return account, nil
}

func (s *Storage) Words(ctx context.Context) ([]string, error) {
	words, err := s.client.SMembers(ctx, wordsKey).Result()
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}
	return words, nil
}

// ReplaceWords fills a staging set and renames it over the live one, so
// readers never see a half-written list
func (s *Storage) ReplaceWords(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return s.client.Del(ctx, wordsKey).Err()
	}

	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, wordsStagingKey)
		pipe.SAdd(ctx, wordsStagingKey, members...)
		pipe.Rename(ctx, wordsStagingKey, wordsKey)
		return nil
	})
	return err
}
