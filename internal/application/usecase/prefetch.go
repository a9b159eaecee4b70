package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/victoragudo/hotel-management-system/console/internal/application/pagination"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

type PrefetchTask struct {
	Resource Resource
	Run      func(ctx context.Context) error
}

// PrefetchList warms the first page of a list into the cache, the same page a list screen mounts.
func PrefetchList[T any](deps Deps, resource Resource, lister Lister[T], limit int) PrefetchTask {
	return PrefetchTask{
		Resource: resource,
		Run: func(ctx context.Context) error {
			pager := pagination.NewOffsetPager(limit)
			params := pager.Params()
			_, err := querycache.Fetch(ctx, deps.Cache, pager.Key(resource.Name), func(ctx context.Context) (record.Page[T], error) {
				return lister.List(ctx, params)
			}, querycache.Options{StaleTime: resource.StaleTime})
			return err
		},
	}
}

// Prefetcher warms static lookup lists concurrently.
type Prefetcher struct {
	deps        Deps
	tasks       []PrefetchTask
	concurrency int
}

func NewPrefetcher(deps Deps, concurrency int, tasks ...PrefetchTask) *Prefetcher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Prefetcher{deps: deps, tasks: tasks, concurrency: concurrency}
}

// Run fetches every task once; fresh entries are served from the cache without a request. A failing
// task does not stop the others; the first error is returned after all tasks finish.
func (p *Prefetcher) Run(ctx context.Context) error {
	startTime := time.Now()
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for _, task := range p.tasks {
		g.Go(func() error {
			if err := task.Run(ctx); err != nil {
				p.deps.logger().Warn("Prefetch failed", "resource", task.Resource.Name, "error", err)
				return fmt.Errorf("prefetch %s: %w", task.Resource.Name, err)
			}
			return nil
		})
	}

	err := g.Wait()
	p.deps.logger().Debug("Prefetch finished", "tasks", len(p.tasks), "duration", time.Since(startTime))
	return err
}
