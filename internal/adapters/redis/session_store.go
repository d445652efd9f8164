package redis

// Package redis provides the Redis-based session store.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/novahq/nova-dashboard/internal/domain/auth"
)

// SessionStore is a Redis-based session store. Each session occupies a
// single key-value slot under a fixed key prefix; the slot holds the
// JSON-serialized session identity and nothing else.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-based session store. Sessions expire
// after ttl; a zero ttl means sessions never expire.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Save persists the session under its slot. The store never persists an
// unverified identity: callers run the allow-list check before Save.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, s.ttl).Err()
}

// Restore reads the persisted session bytes. An absent key reports
// ok=false. Malformed bytes are actively deleted so no future restore sees
// them, then likewise report ok=false; corruption is never surfaced as an
// error. The returned error is reserved for Redis being unreachable.
func (s *SessionStore) Restore(ctx context.Context, id string) (domainauth.Session, bool, error) {
	if id == "" {
		return domainauth.Session{}, false, nil
	}

	key := s.prefix + id
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, false, nil
		}
		return domainauth.Session{}, false, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		// Corrupted slot: discard the bytes and fall back to anonymous.
		if delErr := s.client.Del(ctx, key).Err(); delErr != nil {
			return domainauth.Session{}, false, fmt.Errorf("discard corrupted session: %w", delErr)
		}
		return domainauth.Session{}, false, nil
	}

	return sess, true, nil
}

// Delete removes the session slot. Deleting a missing session is a no-op,
// so logging out twice is indistinguishable from logging out once.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}

	return s.client.Del(ctx, s.prefix+id).Err()
}
