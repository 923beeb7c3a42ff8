package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 介面定義
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RsTokenBucket 多個 instance 共用 redis 中的 bucket 狀態
type RsTokenBucket struct {
	LimiterConfig
	client RedisClient
	now    func() time.Time
}

var _ Limiter = (*RsTokenBucket)(nil)

func NewRsTokenBucket(client RedisClient, config *LimiterConfig) *RsTokenBucket {
	rb := &RsTokenBucket{
		client: client,
		now:    time.Now,
	}
	if config != nil {
		rb.LimiterConfig = config.normalize()
	} else {
		rb.LimiterConfig = GetDefaultLimiterConfig()
	}
	return rb
}

const tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	-- 取得或初始化 bucket 狀態
	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])

	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	-- 計算需要補充的 tokens, now 為毫秒
	local elapsedSeconds = math.max(0, now - lastRefill) / 1000
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(currentTokens), 'last_refill', tostring(now))
	redis.call('EXPIRE', key, ttl)
	return allowed
`

func (r *RsTokenBucket) Allow(ctx context.Context, key string) (bool, error) {
	// bucket 補滿所需時間後即可丟棄
	ttl := int(math.Ceil(float64(r.Capacity)/r.Rate)) + 1

	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{"ratelimit:" + key},
		r.Capacity,
		r.Rate,
		r.now().UnixMilli(),
		ttl,
	).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
