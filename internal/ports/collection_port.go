package ports

import (
	"context"
	"net/url"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
)

// Collection is the CRUD surface of one REST resource. T is the record, I its writable input.
type Collection[T any, I any] interface {
	Name() string
	List(ctx context.Context, params url.Values) (record.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, input I) (T, error)
	Update(ctx context.Context, id string, input I) (T, error)
	Delete(ctx context.Context, id string) error
}
