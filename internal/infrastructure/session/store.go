// Package session stores authenticated portal sessions in Redis so any
// instance can serve any request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/selfservice/portal/internal/infrastructure/config"
)

// ErrNotFound is returned when no session exists for the given id
var ErrNotFound = errors.New("session not found")

// Session is the server-side record keyed by the token's session id
type Session struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	ServiceExternalID string    `json:"service_external_id"`
	GatewayAccountID  string    `json:"gateway_account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// Store persists sessions in Redis with a sliding TTL
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewStore connects to Redis and returns a session store
func NewStore(redisCfg config.RedisConfig, sessionCfg config.SessionConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{
		client:    client,
		keyPrefix: sessionCfg.KeyPrefix,
		ttl:       sessionCfg.TTL,
	}, nil
}

// NewStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *Store {
	if keyPrefix == "" {
		keyPrefix = "portal:session:"
	}
	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Save writes the session record with the configured TTL
func (s *Store) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	key := s.keyPrefix + session.SessionID
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get loads the session record and slides its TTL forward
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	key := s.keyPrefix + sessionID

	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	// Sliding expiry keeps active sessions alive
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
	}

	return &session, nil
}

// Delete removes the session record
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *Store) Close() error {
	return s.client.Close()
}
