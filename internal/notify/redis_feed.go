package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-hotel-reservations/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisFeed keeps the newest Size notifications in one Redis list.
type RedisFeed struct {
	Redis       *redis.Client
	Size        int
	ServiceName string
}

func (f *RedisFeed) Seen(ctx context.Context, eventID string) (bool, error) {
	return redisx.Exists(ctx, f.Redis, f.dedupKey(eventID))
}

func (f *RedisFeed) MarkSeen(ctx context.Context, eventID string) error {
	return f.Redis.Set(ctx, f.dedupKey(eventID), "1", redisx.TTLDedup).Err()
}

func (f *RedisFeed) Push(ctx context.Context, n Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = f.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, redisx.KeyNotifications, b)
		p.LTrim(ctx, redisx.KeyNotifications, 0, int64(f.Size-1))
		return nil
	})
	return err
}

// Latest returns up to Size notifications, newest first.
func (f *RedisFeed) Latest(ctx context.Context) ([]Notification, error) {
	raw, err := f.Redis.LRange(ctx, redisx.KeyNotifications, 0, int64(f.Size-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *RedisFeed) dedupKey(eventID string) string {
	return fmt.Sprintf(redisx.KeyDedup, f.ServiceName, eventID)
}
