package main

import (
	"context"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/dashboard"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
)

// binding erases the record type of one resource so commands can address it by name.
type binding struct {
	resource usecase.Resource
	pane     func(deps usecase.Deps, pageSize int, changed func(resource string)) dashboard.Pane
	prefetch func(deps usecase.Deps, limit int) usecase.PrefetchTask
	show     func(ctx context.Context, deps usecase.Deps, id string) (any, error)
	remove   func(ctx context.Context, deps usecase.Deps, id string) error
}

func bind[T usecase.Editable[I], I any](resource usecase.Resource, client *adapter.ResourceClient[T, I], columns dashboard.Columns[T]) binding {
	return binding{
		resource: resource,
		pane: func(deps usecase.Deps, pageSize int, changed func(string)) dashboard.Pane {
			return dashboard.NewListPane[T](deps, resource, client, pageSize, columns, changed)
		},
		prefetch: func(deps usecase.Deps, limit int) usecase.PrefetchTask {
			return usecase.PrefetchList[T](deps, resource, client, limit)
		},
		show: func(ctx context.Context, deps usecase.Deps, id string) (any, error) {
			page := usecase.NewDetailPage[T, I](deps, resource, client)
			if err := page.Mount(ctx, id); err != nil {
				return nil, err
			}
			return page.Record()
		},
		remove: func(ctx context.Context, deps usecase.Deps, id string) error {
			return usecase.NewOptimisticDelete[T](deps, resource, client).Delete(ctx, id)
		},
	}
}
