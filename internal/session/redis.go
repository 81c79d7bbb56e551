package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gometeo/cityweather/internal/model"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisStore(addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("session store connected", "backend", "redis", "addr", addr)

	return newRedisStore(client, ttl, logger), nil
}

func newRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Set writes the state and restarts its TTL.
func (s *RedisStore) Set(ctx context.Context, id string, state *model.SessionState) error {
	b, err := encodeState(state)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKey(id), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session to redis: %w", err)
	}

	s.logger.Debug("session saved", "key", sessionKey(id), "ttl", s.ttl)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.SessionState, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session from redis: %w", err)
	}

	return decodeState(val)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session from redis: %w", err)
	}

	s.logger.Debug("session deleted", "key", sessionKey(id))
	return nil
}

func sessionKey(id string) string {
	return "cityweather:session:" + id
}

var _ Store = (*RedisStore)(nil)
