package main

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter implements the fixed-window policy on Redis so counters are
// shared across replicas and survive restarts. Windows align to wall-clock
// boundaries; expired ones evict themselves via key TTL.
type RedisLimiter struct {
	client   *redis.Client
	limit    int
	interval time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, interval: interval}
}

// The script makes increment-and-compare atomic on the Redis side.
var fixedWindowScript = redis.NewScript(`
local base_key = KEYS[1]
local limit = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local now_ms = tonumber(ARGV[3])

local window_start = now_ms - (now_ms % window_ms)
local key = base_key .. ":" .. window_start
local count = redis.call("INCR", key)
redis.call("PEXPIRE", key, window_ms + 1000)

local allowed = 1
if count > limit then allowed = 0 end
local remaining = limit - count
if remaining < 0 then remaining = 0 end

return {allowed, remaining, window_start + window_ms}
`)

func (l *RedisLimiter) Check(ctx context.Context, key string, now time.Time) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, l.client, []string{"ratelimit:" + key},
		l.limit, l.interval.Milliseconds(), now.UnixMilli()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	return Decision{
		Allowed:   toInt64(values[0]) == 1,
		Remaining: int(toInt64(values[1])),
		ResetAt:   time.UnixMilli(toInt64(values[2])),
	}, nil
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
