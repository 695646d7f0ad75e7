package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userIndexKeyPrefix = "session:user:"
)

// RedisStore implements Store on Redis. Sessions are stored as JSON values
// with a TTL matching their expiry, so Redis itself handles expiration; a
// per-user set indexes tokens for DeleteByUserID.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	if client == nil {
		panic("session: redis client is required")
	}
	return &RedisStore{client: client}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userIndexKey(userID int64) string {
	return userIndexKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.Token), payload, ttl)
	if session.UserID != nil {
		pipe.SAdd(ctx, userIndexKey(*session.UserID), session.Token)
		pipe.Expire(ctx, userIndexKey(*session.UserID), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	if session.IsExpired() {
		_ = s.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	exists, err := s.client.Exists(ctx, sessionKey(session.Token)).Result()
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}

	return s.Create(ctx, session)
}

func (s *RedisStore) UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	session.LastActivityAt = lastActivity
	return s.Create(ctx, session)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	// Fetch first so the user index stays consistent.
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errors.Join(ErrStorageFailed, err)
	}

	var session Session
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	if json.Unmarshal(payload, &session) == nil && session.UserID != nil {
		pipe.SRem(ctx, userIndexKey(*session.UserID), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	return nil
}

// DeleteExpired is a no-op: Redis TTLs expire session keys on their own.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID int64) error {
	tokens, err := s.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}
	keys = append(keys, userIndexKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	return nil
}
