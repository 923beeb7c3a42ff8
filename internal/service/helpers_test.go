package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeNotifier 記錄收到的訂單通知
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []OrderConfirmation
	err   error
	calls chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan struct{}, 16)}
}

func (f *fakeNotifier) NotifyOrderPlaced(ctx context.Context, c OrderConfirmation) error {
	f.mu.Lock()
	f.sent = append(f.sent, c)
	f.mu.Unlock()
	f.calls <- struct{}{}
	return f.err
}

func (f *fakeNotifier) waitForCall(t *testing.T) OrderConfirmation {
	t.Helper()
	select {
	case <-f.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func newCartRepo(t *testing.T) *redis_repo.CartRepo {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return redis_repo.NewCartRepo(client, time.Hour)
}
