package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps each namespace as one Redis hash.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis preference store: address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "keydrift:prefs:"
	}
	return &RedisStore{client: client, keyPrefix: prefix}, nil
}

func (s *RedisStore) hash(namespace string) string {
	return s.keyPrefix + namespace
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.hash(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.client.HSet(ctx, s.hash(namespace), key, value).Err(); err != nil {
		return fmt.Errorf("set preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.HDel(ctx, s.hash(namespace), key).Err(); err != nil {
		return fmt.Errorf("delete preference %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
