package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const localIdleTTL = 10 * time.Minute

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter 單一 instance 使用, 不依賴 redis
type LocalLimiter struct {
	LimiterConfig
	mu        sync.Mutex
	buckets   map[string]*localEntry
	lastSweep time.Time
	now       func() time.Time
}

var _ Limiter = (*LocalLimiter)(nil)

func NewLocalLimiter(config *LimiterConfig) *LocalLimiter {
	l := &LocalLimiter{
		buckets: make(map[string]*localEntry),
		now:     time.Now,
	}
	if config != nil {
		l.LimiterConfig = config.normalize()
	} else {
		l.LimiterConfig = GetDefaultLimiterConfig()
	}
	l.lastSweep = l.now()
	return l
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.buckets[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(rate.Limit(l.Rate), l.Capacity)}
		l.buckets[key] = entry
	}
	entry.lastSeen = now

	if now.Sub(l.lastSweep) > localIdleTTL {
		l.sweep(now)
	}
	return entry.limiter.AllowN(now, 1), nil
}

// 移除閒置的 bucket
func (l *LocalLimiter) sweep(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > localIdleTTL {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}
