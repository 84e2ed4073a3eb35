package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrNotFound is returned when the requested session record does not exist.
var ErrNotFound = errors.New("session not found")

// DefaultPrefix is an exported constant or variable used by the authentication engine.
const DefaultPrefix = "authc"

const minRecordTTL = time.Second

const deleteSessionScript = `
redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if redis.call("SCARD", KEYS[2]) == 0 then
  redis.call("DEL", KEYS[2])
end
return 1
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Store is a Redis-backed session store that handles persistence, TTL
// alignment with session expiry, and the per-user session index.
//
//	Docs: docs/session.md
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace; an empty prefix selects
// [DefaultPrefix].
//
//	Docs: docs/session.md
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) key(sessionKey string) string {
	return s.prefix + ":session:" + sessionKey
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user:sessions:" + userID
}

// Save persists a [Session] with TTL = ExpireAt - now and indexes it under
// the owning user. Saving an existing key is an idempotent overwrite.
// The index TTL only ever grows, so it outlives its longest member.
//
//	Performance: 3 Redis commands in one MULTI/EXEC round trip.
//	Docs: docs/session.md
func (s *Store) Save(ctx context.Context, sess *Session) error {
	ttl := sess.RemainingTTL(time.Now())
	if ttl <= 0 {
		ttl = minRecordTTL
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	sessionKey := s.key(sess.SessionKey)
	userKey := s.userKey(sess.UserID)

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey, data, ttl)
		pipe.SAdd(ctx, userKey, sess.SessionKey)
		pipe.ExpireGT(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a session by session key. Returns [ErrNotFound] when the
// record is absent or has expired out of the store.
//
//	Performance: 1 Redis GET.
//	Docs: docs/session.md
func (s *Store) Get(ctx context.Context, sessionKey string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(sessionKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupt session record: %v", ErrNotFound, err)
	}

	return &sess, nil
}

// Delete removes the record and its index membership, dropping the index set
// when it becomes empty. Deleting a missing session is a no-op.
//
//	Performance: 1 Lua EVALSHA (atomic across both keys).
//	Docs: docs/session.md
func (s *Store) Delete(ctx context.Context, sess *Session) error {
	_, err := deleteSessionLua.Run(
		ctx,
		s.redis,
		[]string{s.key(sess.SessionKey), s.userKey(sess.UserID)},
		sess.SessionKey,
	).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// UserSessionKeys returns the tracked session keys for a user.
// Index members whose records have already expired are pruned lazily by
// readers; a missing index means no sessions.
func (s *Store) UserSessionKeys(ctx context.Context, userID string) ([]string, error) {
	keys, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return keys, nil
}

// GetMany fetches multiple sessions in one pipeline, skipping keys whose
// records no longer exist.
func (s *Store) GetMany(ctx context.Context, sessionKeys []string) ([]*Session, error) {
	if len(sessionKeys) == 0 {
		return []*Session{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(sessionKeys))
	for i, key := range sessionKeys {
		cmds[i] = pipe.Get(ctx, s.key(key))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sessions := make([]*Session, 0, len(sessionKeys))
	for _, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, cmdErr)
		}

		var sess Session
		if jsonErr := json.Unmarshal(data, &sess); jsonErr != nil {
			continue
		}
		sessions = append(sessions, &sess)
	}

	return sessions, nil
}

// ListAll scans the session keyspace and returns every live record.
// This is an admin-only O(n) operation and must not be used in request hot paths.
func (s *Store) ListAll(ctx context.Context) ([]*Session, error) {
	pattern := s.prefix + ":session:*"
	var (
		cursor   uint64
		sessions []*Session
	)

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		trimmed := make([]string, 0, len(keys))
		for _, key := range keys {
			trimmed = append(trimmed, key[len(s.prefix+":session:"):])
		}

		batch, err := s.GetMany(ctx, trimmed)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, batch...)

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return sessions, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
