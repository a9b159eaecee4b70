package usecase

import (
	"context"
	"sync"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// Editable records can seed a draft of their writable input.
type Editable[I any] interface {
	record.Identifiable
	Input() I
}

// DetailPage loads one record by id and binds it into an edit form.
type DetailPage[T Editable[I], I any] struct {
	deps       Deps
	resource   Resource
	collection ports.Collection[T, I]

	mu     sync.Mutex
	id     string
	record T
	err    error
	form   *FormSubmitter[T, I]
}

func NewDetailPage[T Editable[I], I any](deps Deps, resource Resource, collection ports.Collection[T, I]) *DetailPage[T, I] {
	return &DetailPage[T, I]{deps: deps, resource: resource, collection: collection}
}

// Mount fetches the record through the cache and seeds a fresh draft from it.
func (p *DetailPage[T, I]) Mount(ctx context.Context, id string) error {
	collection := p.collection
	item, err := querycache.Fetch(ctx, p.deps.Cache, p.resource.DetailKeyFor(id), func(ctx context.Context) (T, error) {
		return collection.Get(ctx, id)
	}, querycache.Options{StaleTime: p.resource.StaleTime})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
	p.err = err
	if err != nil {
		p.form = nil
		return err
	}
	p.record = item

	resource := p.resource
	p.form = newFormSubmitter(p.deps, item.Input(),
		func(input I) Intent { return UpdateIntent(resource, id, input) },
		func(ctx context.Context, input I) (T, error) { return collection.Update(ctx, id, input) },
		resource.ListPath,
	)
	return nil
}

func (p *DetailPage[T, I]) Record() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record, p.err
}

func (p *DetailPage[T, I]) Form() (*FormSubmitter[T, I], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.form == nil {
		return nil, ErrNotMounted
	}
	return p.form, nil
}

func (p *DetailPage[T, I]) Edit(fn func(input *I)) error {
	form, err := p.Form()
	if err != nil {
		return err
	}
	return form.Edit(fn)
}

func (p *DetailPage[T, I]) Submit(ctx context.Context) (T, error) {
	form, err := p.Form()
	if err != nil {
		var zero T
		return zero, err
	}
	return form.Submit(ctx)
}

// CreatePage binds an empty draft with defaults and posts it.
type CreatePage[T any, I any] struct {
	form *FormSubmitter[T, I]
}

func NewCreatePage[T any, I any](deps Deps, resource Resource, collection ports.Collection[T, I], defaults I) *CreatePage[T, I] {
	return &CreatePage[T, I]{
		form: newFormSubmitter(deps, defaults,
			func(input I) Intent { return CreateIntent(resource, input) },
			collection.Create,
			resource.ListPath,
		),
	}
}

func (p *CreatePage[T, I]) Form() *FormSubmitter[T, I] { return p.form }

func (p *CreatePage[T, I]) Edit(fn func(input *I)) error { return p.form.Edit(fn) }

func (p *CreatePage[T, I]) Submit(ctx context.Context) (T, error) { return p.form.Submit(ctx) }
