package usecase

import (
	"context"
	"sync"

	"github.com/victoragudo/hotel-management-system/console/internal/application/pagination"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// ListView is everything a list screen renders.
type ListView[T any] struct {
	Items       []T
	Loading     bool
	Refreshing  bool
	Stale       bool
	Err         error
	HasNext     bool
	HasPrevious bool
	Total       *int
}

// ListPage observes the cached page under the pager's current position and exposes next/previous
// controls and optimistic deletion.
type ListPage[T record.Identifiable] struct {
	deps     Deps
	resource Resource
	lister   Lister[T]
	pager    pagination.Pager
	deletes  *OptimisticDelete[T]
	onChange func(ListView[T])

	mu       sync.Mutex
	observer *querycache.Observer
}

// NewListPage wires a list page. deleter may be nil for read-only lists; onChange may be nil.
func NewListPage[T record.Identifiable](deps Deps, resource Resource, lister Lister[T], deleter Deleter, pager pagination.Pager, onChange func(ListView[T])) *ListPage[T] {
	if pager == nil {
		pager = pagination.NewOffsetPager(pagination.DefaultLimit)
	}
	p := &ListPage[T]{
		deps:     deps,
		resource: resource,
		lister:   lister,
		pager:    pager,
		onChange: onChange,
	}
	if deleter != nil && resource.Deletable {
		p.deletes = NewOptimisticDelete[T](deps, resource, deleter)
	}
	return p
}

func (p *ListPage[T]) Resource() Resource { return p.resource }

// Key is the cache key of the page currently shown.
func (p *ListPage[T]) Key() querycache.Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pager.Key(p.resource.Name)
}

// Mount starts observing the current page.
func (p *ListPage[T]) Mount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observeLocked(ctx)
}

// Unmount stops observing. Results arriving afterwards are not applied to this page.
func (p *ListPage[T]) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observer != nil {
		p.observer.Unsubscribe()
		p.observer = nil
	}
}

func (p *ListPage[T]) Next(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncPagerLocked()
	if !p.pager.Next() {
		return false
	}
	p.observeLocked(ctx)
	return true
}

func (p *ListPage[T]) Previous(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncPagerLocked()
	if !p.pager.Previous() {
		return false
	}
	p.observeLocked(ctx)
	return true
}

// Refresh invalidates the shown page; being observed, it refetches at once.
func (p *ListPage[T]) Refresh() {
	p.deps.Cache.Invalidate(p.Key())
}

// Delete removes id optimistically. It fails with ErrMutationPending while another delete of this
// page is outstanding.
func (p *ListPage[T]) Delete(ctx context.Context, id string) error {
	if p.deletes == nil {
		return ErrNotDeletable
	}
	return p.deletes.Delete(ctx, id)
}

func (p *ListPage[T]) DeleteState() DeleteState {
	if p.deletes == nil {
		return DeleteIdle
	}
	return p.deletes.State()
}

func (p *ListPage[T]) View() ListView[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observer == nil {
		return ListView[T]{}
	}
	return p.viewLocked(p.observer.Entry())
}

func (p *ListPage[T]) observeLocked(ctx context.Context) {
	if p.observer != nil {
		p.observer.Unsubscribe()
	}

	key := p.pager.Key(p.resource.Name)
	params := p.pager.Params()
	lister := p.lister
	query := querycache.TypedQuery(key, func(ctx context.Context) (record.Page[T], error) {
		return lister.List(ctx, params)
	}, querycache.Options{StaleTime: p.resource.StaleTime})

	var observer *querycache.Observer
	observer = p.deps.Cache.Observe(ctx, query, func(entry querycache.Entry) {
		p.mu.Lock()
		if p.observer != observer {
			p.mu.Unlock()
			return
		}
		view := p.viewLocked(entry)
		p.mu.Unlock()

		if p.onChange != nil {
			p.onChange(view)
		}
	})
	p.observer = observer
}

// syncPagerLocked feeds the latest page into the pager before it decides whether next is allowed.
func (p *ListPage[T]) syncPagerLocked() {
	if p.observer == nil {
		return
	}
	if page, ok := querycache.EntryData[record.Page[T]](p.observer.Entry()); ok {
		p.pager.Record(len(page.Results), page.Next, page.Previous, page.Count)
	}
}

func (p *ListPage[T]) viewLocked(entry querycache.Entry) ListView[T] {
	view := ListView[T]{
		Loading:    entry.IsLoading(),
		Refreshing: entry.FetchStatus == querycache.FetchFetching && entry.Data != nil,
		Stale:      entry.IsStale,
		Err:        entry.Err,
	}
	if page, ok := querycache.EntryData[record.Page[T]](entry); ok {
		p.pager.Record(len(page.Results), page.Next, page.Previous, page.Count)
		view.Items = page.Results
		view.Total = page.Count
	}
	view.HasNext = p.pager.HasNext()
	view.HasPrevious = p.pager.HasPrevious()
	return view
}
