package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/cart"
	"github.com/redis/go-redis/v9"
)

var ErrCartConflict = errors.New("cart was modified concurrently")

const maxCartRetries = 5

type ICartRepository interface {
	Get(ctx context.Context, userID string) (cart.Cart, error)
	Update(ctx context.Context, userID string, fn func(cart.Cart) cart.Cart) (cart.Cart, error)
	Delete(ctx context.Context, userID string) error
}

// CartRepo 每個使用者一份購物車, 整份以 JSON 存在單一 key
type CartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ICartRepository = (*CartRepo)(nil)

func NewCartRepo(client *redis.Client, ttl time.Duration) *CartRepo {
	return &CartRepo{client: client, ttl: ttl}
}

func generateCartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// Get 不存在時回傳空購物車
func (r *CartRepo) Get(ctx context.Context, userID string) (cart.Cart, error) {
	data, err := r.client.Get(ctx, generateCartKey(userID)).Bytes()
	return decodeCart(data, err)
}

// Update 以 WATCH 做樂觀鎖, 其他寫入者搶先時重試
func (r *CartRepo) Update(ctx context.Context, userID string, fn func(cart.Cart) cart.Cart) (cart.Cart, error) {
	key := generateCartKey(userID)
	var result cart.Cart

	txf := func(tx *redis.Tx) error {
		current, err := decodeCart(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}

		next := fn(current)
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxCartRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return cart.Cart{}, fmt.Errorf("failed to update cart: %w", err)
	}
	return cart.Cart{}, ErrCartConflict
}

func (r *CartRepo) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, generateCartKey(userID)).Err()
}

func decodeCart(data []byte, err error) (cart.Cart, error) {
	if errors.Is(err, redis.Nil) {
		return cart.Cart{Items: []cart.Item{}}, nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.Cart{}, fmt.Errorf("failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return c, nil
}
