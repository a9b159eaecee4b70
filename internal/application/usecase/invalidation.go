package usecase

import (
	"context"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// InvalidationHandler applies mutations announced by other consoles to the local cache.
type InvalidationHandler struct {
	deps    Deps
	profile Profile
}

func NewInvalidationHandler(deps Deps, profile Profile) *InvalidationHandler {
	return &InvalidationHandler{deps: deps, profile: profile}
}

// Handle reports whether the event touched this console. Events from our own origin are ignored:
// the mutation already settled locally.
func (h *InvalidationHandler) Handle(_ context.Context, event ports.InvalidationEvent) bool {
	if event.Origin != "" && event.Origin == h.deps.Origin {
		return false
	}
	resource, ok := h.profile.Resource(event.Resource)
	if !ok {
		return false
	}

	h.deps.Cache.Invalidate(resource.ListPrefix())
	if event.ID != "" {
		if event.Kind == ports.MutationDelete {
			h.deps.Cache.Remove(resource.DetailKeyFor(event.ID))
		} else {
			h.deps.Cache.Invalidate(resource.DetailKeyFor(event.ID))
		}
	}
	h.deps.logger().Debug("Applied remote invalidation", "resource", event.Resource, "id", event.ID, "kind", event.Kind, "origin", event.Origin)
	return true
}
