package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// RedisSnapshotAdapter persists query results so a restarted console can paint stale data while it
// revalidates.
type RedisSnapshotAdapter struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type snapshot struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

func NewRedisSnapshotAdapter(addr, password string, db int, prefix string, ttl time.Duration) ports.SnapshotStore {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db, PoolSize: 10})
	return NewRedisSnapshotAdapterWithClient(c, prefix, ttl)
}

func NewRedisSnapshotAdapterWithClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisSnapshotAdapter {
	return &RedisSnapshotAdapter{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisSnapshotAdapter) Load(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}

	var s snapshot
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, time.Time{}, false, err
	}
	return s.Data, s.FetchedAt, true, nil
}

func (r *RedisSnapshotAdapter) Save(ctx context.Context, key string, data []byte, fetchedAt time.Time) error {
	b, err := json.Marshal(snapshot{FetchedAt: fetchedAt, Data: data})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, b, r.ttl).Err()
}

func (r *RedisSnapshotAdapter) Close() error {
	return r.client.Close()
}
