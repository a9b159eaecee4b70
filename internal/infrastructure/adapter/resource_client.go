package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// ResourceClient maps the CRUD operations of one resource onto its v1 endpoints.
type ResourceClient[T any, I any] struct {
	name      string
	path      string
	transport ports.Transport
}

// NewResourceClient binds resource (e.g. "hotel-types") to transport.
func NewResourceClient[T any, I any](transport ports.Transport, resource string) *ResourceClient[T, I] {
	return &ResourceClient[T, I]{
		name:      resource,
		path:      "v1/" + strings.Trim(resource, "/") + "/",
		transport: transport,
	}
}

func (r *ResourceClient[T, I]) Name() string { return r.name }

func (r *ResourceClient[T, I]) List(ctx context.Context, params url.Values) (record.Page[T], error) {
	path := r.path
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page record.Page[T]
	if err := r.transport.Do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return record.Page[T]{}, fmt.Errorf("failed to list %s: %w", r.name, err)
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page, nil
}

func (r *ResourceClient[T, I]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if err := r.transport.Do(ctx, http.MethodGet, r.itemPath(id), nil, &item); err != nil {
		return item, fmt.Errorf("failed to get %s %s: %w", r.name, id, err)
	}
	return item, nil
}

func (r *ResourceClient[T, I]) Create(ctx context.Context, input I) (T, error) {
	var item T
	if err := r.transport.Do(ctx, http.MethodPost, r.path, input, &item); err != nil {
		return item, fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return item, nil
}

func (r *ResourceClient[T, I]) Update(ctx context.Context, id string, input I) (T, error) {
	var item T
	if err := r.transport.Do(ctx, http.MethodPatch, r.itemPath(id), input, &item); err != nil {
		return item, fmt.Errorf("failed to update %s %s: %w", r.name, id, err)
	}
	return item, nil
}

func (r *ResourceClient[T, I]) Delete(ctx context.Context, id string) error {
	if err := r.transport.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.name, id, err)
	}
	return nil
}

func (r *ResourceClient[T, I]) itemPath(id string) string {
	return r.path + url.PathEscape(id) + "/"
}
