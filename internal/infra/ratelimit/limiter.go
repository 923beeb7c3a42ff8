package ratelimit

import (
	"context"
)

// Limiter 以 key 為單位的 token bucket
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type LimiterConfig struct {
	Capacity int     // bucket 容量, 也是初始 token 數
	Rate     float64 // tokens/秒
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 10,
		Rate:     1,
	}
}

func (c LimiterConfig) normalize() LimiterConfig {
	def := GetDefaultLimiterConfig()
	if c.Capacity <= 0 {
		c.Capacity = def.Capacity
	}
	if c.Rate <= 0 {
		c.Rate = def.Rate
	}
	return c
}
