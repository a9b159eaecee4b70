package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// releaseScript deletes the lease only while it still holds our token, so an expired lease that
// another console picked up is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLockAdapter struct {
	client redis.UniversalClient
	prefix string
	tokens sync.Map
}

func NewRedisLockAdapter(addr, password string, db int, prefix string) ports.LockPort {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db, PoolSize: 10})
	return NewRedisLockAdapterWithClient(c, prefix)
}

func NewRedisLockAdapterWithClient(client redis.UniversalClient, prefix string) *RedisLockAdapter {
	return &RedisLockAdapter{client: client, prefix: prefix}
}

func (r *RedisLockAdapter) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.prefix+key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}
	r.tokens.Store(key, token)
	return true, nil
}

func (r *RedisLockAdapter) Release(ctx context.Context, key string) error {
	token, ok := r.tokens.LoadAndDelete(key)
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, r.client, []string{r.prefix + key}, token).Err()
}

func (r *RedisLockAdapter) Close() error {
	return r.client.Close()
}
