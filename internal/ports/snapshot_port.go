package ports

import (
	"context"
	"time"
)

type SnapshotStore interface {
	Load(ctx context.Context, key string) (data []byte, fetchedAt time.Time, found bool, err error)
	Save(ctx context.Context, key string, data []byte, fetchedAt time.Time) error
	Close() error
}
