package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript runs the refill-and-consume step atomically so concurrent
// replicas share one bucket per key.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local now_ms = tonumber(ARGV[4])
local cost = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_at')
local tokens = tonumber(state[1])
local refilled_at = tonumber(state[2])
if tokens == nil then
	tokens = capacity
	refilled_at = now_ms
end

local intervals = math.floor((now_ms - refilled_at) / interval_ms)
local max_intervals = math.floor(capacity / refill_rate) + 1
if intervals > max_intervals then
	intervals = max_intervals
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * refill_rate, capacity)
	refilled_at = now_ms
end

tokens = tokens - cost
redis.call('HSET', KEYS[1], 'tokens', tokens, 'refilled_at', refilled_at)
redis.call('PEXPIRE', KEYS[1], (max_intervals + 1) * interval_ms)

return {tokens, refilled_at + interval_ms}
`)

// RedisStore implements Store on Redis, giving every replica the same view
// of a key's bucket.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a redis-backed bucket store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	if client == nil {
		panic("ratelimit: redis client cannot be nil")
	}
	return &RedisStore{client: client}
}

func rateKey(key string) string {
	return "ratelimit:" + key
}

func (s *RedisStore) Consume(ctx context.Context, key string, cost int, cfg Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{rateKey(key)},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		time.Now().UnixMilli(),
		cost,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStorageFailed, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStorageFailed
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, rateKey(key)).Err(); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}
