package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// CreateIdempotency remembers which booking an Idempotency-Key produced.
// A key is first reserved with a pending marker, so concurrent requests
// carrying the same key cannot both create a booking.
type CreateIdempotency struct{ Redis *redis.Client }

const idemPending = "pending"

// Reserve claims key. fresh is true when the caller now owns it; otherwise
// bookingID is the stored result, or 0 while another request still holds it.
func (c *CreateIdempotency) Reserve(ctx context.Context, key string) (bookingID int64, fresh bool, err error) {
	k := fmt.Sprintf(KeyIdemBookingCreate, key)
	ok, err := c.Redis.SetNX(ctx, k, idemPending, TTLIdempotency).Result()
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}

	v, err := c.Redis.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) || v == idemPending {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency key %s: %w", key, err)
	}
	return id, false, nil
}

func (c *CreateIdempotency) Remember(ctx context.Context, key string, bookingID int64) error {
	return c.Redis.Set(ctx, fmt.Sprintf(KeyIdemBookingCreate, key), bookingID, TTLIdempotency).Err()
}

// Release drops a reservation whose create failed, so the client may retry.
func (c *CreateIdempotency) Release(ctx context.Context, key string) error {
	return c.Redis.Del(ctx, fmt.Sprintf(KeyIdemBookingCreate, key)).Err()
}
