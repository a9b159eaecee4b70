package usecase

import (
	"context"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// Intent is a mutation about to be sent: what it targets and which cached queries it makes
// untrustworthy. Form submissions invalidate them only on success; deletes invalidate them however
// the request ends, after any rollback.
type Intent struct {
	Kind        ports.MutationKind
	Resource    Resource
	ID          string
	Target      querycache.Key
	Payload     any
	Invalidates []querycache.Key
}

func CreateIntent(resource Resource, payload any) Intent {
	return Intent{
		Kind:        ports.MutationCreate,
		Resource:    resource,
		Target:      resource.ListPrefix(),
		Payload:     payload,
		Invalidates: []querycache.Key{resource.ListPrefix()},
	}
}

func UpdateIntent(resource Resource, id string, payload any) Intent {
	return Intent{
		Kind:        ports.MutationUpdate,
		Resource:    resource,
		ID:          id,
		Target:      resource.DetailKeyFor(id),
		Payload:     payload,
		Invalidates: []querycache.Key{resource.DetailKeyFor(id), resource.ListPrefix()},
	}
}

func DeleteIntent(resource Resource, id string) Intent {
	return Intent{
		Kind:        ports.MutationDelete,
		Resource:    resource,
		ID:          id,
		Target:      resource.ListPrefix(),
		Invalidates: []querycache.Key{resource.ListPrefix()},
	}
}

// settle invalidates the intent's keys and tells other consoles about it. A failed publish is
// logged; the local cache is already consistent.
func (d Deps) settle(ctx context.Context, intent Intent) {
	for _, key := range intent.Invalidates {
		d.Cache.Invalidate(key)
	}
	if d.Events == nil {
		return
	}

	event := ports.InvalidationEvent{
		Resource: intent.Resource.Name,
		ID:       intent.ID,
		Kind:     intent.Kind,
		Origin:   d.Origin,
		At:       time.Now().UTC(),
	}
	if err := d.Events.Publish(context.WithoutCancel(ctx), event); err != nil {
		d.logger().Warn("Failed to publish invalidation", "resource", event.Resource, "id", event.ID, "error", err)
	}
}
