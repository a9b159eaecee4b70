package querycache

import (
	"context"
	"encoding/json"
	"fmt"
)

// TypedQuery builds a Query whose fetcher and snapshot decoder produce T.
func TypedQuery[T any](key Key, fn func(ctx context.Context) (T, error), opts Options) Query {
	return Query{
		Key: key,
		Fn: func(ctx context.Context) (any, error) {
			return fn(ctx)
		},
		Decode: func(raw []byte) (any, error) {
			var out T
			if err := json.Unmarshal(raw, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		Options: opts,
	}
}

// Fetch is Client.Fetch for a typed query.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	var zero T
	data, err := c.Fetch(ctx, TypedQuery(key, fn, opts))
	if err != nil {
		return zero, err
	}
	out, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("cached data for %s is %T", key, data)
	}
	return out, nil
}

// Data returns the cached value of key when it holds a T.
func Data[T any](c *Client, key Key) (T, bool) {
	var zero T
	data, ok := c.GetQueryData(key)
	if !ok {
		return zero, false
	}
	out, ok := data.(T)
	return out, ok
}

// EntryData extracts a T from an entry view.
func EntryData[T any](e Entry) (T, bool) {
	out, ok := e.Data.(T)
	return out, ok
}

// SetData applies updater to the cached T of key. A missing or foreign value is passed as the zero T.
func SetData[T any](c *Client, key Key, updater func(old T) T) {
	c.SetQueryData(key, func(old any) any {
		typed, _ := old.(T)
		return updater(typed)
	})
}
