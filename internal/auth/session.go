package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession indicates the session id is unknown or expired.
var ErrNoSession = errors.New("no active session")

// SessionStore persists session id to account id mappings server-side.
type SessionStore interface {
	// Start creates a session for the account and returns its opaque id.
	Start(ctx context.Context, accountID string) (string, error)
	// Resolve returns the account id bound to a session, or ErrNoSession.
	Resolve(ctx context.Context, sessionID string) (string, error)
	// End invalidates the session.
	End(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:v1:"

// RedisSessionStore keeps sessions in Redis with a fixed TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds the store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Start(ctx context.Context, accountID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, accountID, s.ttl).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *RedisSessionStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	accountID, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return accountID, nil
}

func (s *RedisSessionStore) End(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// MemorySessionStore is an in-process store used by tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

// NewMemorySessionStore builds an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Start(_ context.Context, accountID string) (string, error) {
	sessionID := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = accountID
	return sessionID, nil
}

func (s *MemorySessionStore) Resolve(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accountID, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrNoSession
	}
	return accountID, nil
}

func (s *MemorySessionStore) End(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
