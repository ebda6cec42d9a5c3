// Package redisstore provides a Redis-backed implementation of KVStore.
// Each key is stored as a string value under "<namespace>:<key>".
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/runoshun/taskflow/internal/domain"
)

const (
	metaKey        = "meta"
	defaultTimeout = 5 * time.Second
)

// Store implements domain.KVStore on top of a Redis client.
type Store struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

// New creates a Store using client. An empty namespace uses the default.
func New(client *redis.Client, namespace string) *Store {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		client:    client,
		namespace: namespace,
		timeout:   defaultTimeout,
	}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr string, db int, namespace string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return New(client, namespace), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(k string) string {
	return s.namespace + ":" + k
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns the raw value stored under key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (s *Store) Put(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %q: value is not valid JSON", key)
	}
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// IsInitialized reports whether the namespace has been initialized.
func (s *Store) IsInitialized() bool {
	ctx, cancel := s.ctx()
	defer cancel()

	n, err := s.client.Exists(ctx, s.key(metaKey)).Result()
	return err == nil && n > 0
}

// Initialize marks the namespace as initialized.
func (s *Store) Initialize() (bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	created, err := s.client.SetNX(ctx, s.key(metaKey), `{"version":1}`, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis init: %w", err)
	}
	return created, nil
}

var (
	_ domain.KVStore          = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
