package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

type DeleteState string

const (
	DeleteIdle      DeleteState = "idle"
	DeletePending   DeleteState = "pending"
	DeleteSucceeded DeleteState = "succeeded"
	DeleteFailed    DeleteState = "failed"
)

// Rollback is the cache content captured right before an optimistic removal was applied. Only the
// entries the removal touched are kept.
type Rollback struct {
	ID      string
	Entries []querycache.Entry
}

// OptimisticDelete removes an item from every cached page of its collection before the server
// confirms, and restores the captured pages if the server refuses.
type OptimisticDelete[T record.Identifiable] struct {
	deps     Deps
	resource Resource
	deleter  Deleter

	mu    sync.Mutex
	state DeleteState
	last  DeleteState
}

func NewOptimisticDelete[T record.Identifiable](deps Deps, resource Resource, deleter Deleter) *OptimisticDelete[T] {
	return &OptimisticDelete[T]{deps: deps, resource: resource, deleter: deleter, state: DeleteIdle, last: DeleteIdle}
}

// State is the current state; Idle between deletes.
func (d *OptimisticDelete[T]) State() DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastOutcome is the terminal state of the most recent delete.
func (d *OptimisticDelete[T]) LastOutcome() DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *OptimisticDelete[T]) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	if d.state == DeletePending {
		d.mu.Unlock()
		return ErrMutationPending
	}
	d.state = DeletePending
	d.mu.Unlock()

	rollback := d.apply(id)
	err := d.deleter.Delete(ctx, id)

	outcome := DeleteSucceeded
	if err != nil {
		outcome = DeleteFailed
		d.restore(rollback)
		d.deps.notify(ports.NotifyError, apierr.UserMessage(err))
		d.deps.logger().Warn("Delete rolled back", "resource", d.resource.Name, "id", id, "error", err)
	} else {
		d.deps.Cache.Remove(d.resource.DetailKeyFor(id))
		d.deps.notify(ports.NotifySuccess, fmt.Sprintf("%s deleted.", d.resource.Label))
	}

	d.deps.settle(ctx, DeleteIntent(d.resource, id))

	d.mu.Lock()
	d.last = outcome
	d.state = DeleteIdle
	d.mu.Unlock()
	return err
}

// apply cancels in-flight reads of the collection first so none of them can overwrite the removal.
func (d *OptimisticDelete[T]) apply(id string) Rollback {
	prefix := d.resource.ListPrefix()
	d.deps.Cache.Cancel(prefix)

	rollback := Rollback{ID: id}
	for _, entry := range d.deps.Cache.GetQueriesData(prefix) {
		page, ok := querycache.EntryData[record.Page[T]](entry)
		if !ok {
			continue
		}
		updated, removed := record.Without(page, id)
		if !removed {
			continue
		}
		rollback.Entries = append(rollback.Entries, entry)
		d.deps.Cache.SetQueryData(entry.Key, func(any) any { return updated })
	}
	return rollback
}

func (d *OptimisticDelete[T]) restore(rollback Rollback) {
	for _, entry := range rollback.Entries {
		data := entry.Data
		d.deps.Cache.SetQueryData(entry.Key, func(any) any { return data })
	}
}
