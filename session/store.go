package session

import (
	"context"
	"errors"
	"time"

	"github.com/authpipe/authpipe"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

const minTTL = time.Second

// Store is a Redis-backed session store. Each session is one hash keyed by
// prefix + session ID; fields are the string keys pipeline stages write
// under. Every write refreshes the session's expiry.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ authpipe.SessionWriter = (*Store)(nil)

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the key namespace; ttl is the session lifetime, floored at
// one second.
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ap"
	}
	if ttl < minTTL {
		ttl = minTTL
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Put writes key=value into the session hash and slides its expiry. It
// implements [authpipe.SessionWriter].
func (s *Store) Put(ctx context.Context, sessionID, key, value string) error {
	redisKey := s.key(sessionID)

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, redisKey, key, value)
	pipe.PExpire(ctx, redisKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Get reads one field from the session hash. A missing field or session
// reports [authpipe.ErrSessionKeyNotFound].
func (s *Store) Get(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.redis.HGet(ctx, s.key(sessionID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", authpipe.ErrSessionKeyNotFound
	}
	if err != nil {
		return "", errors.Join(ErrRedisUnavailable, err)
	}
	return value, nil
}

// Delete removes the whole session. Deleting an absent session is not an
// error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":sess:" + sessionID
}
