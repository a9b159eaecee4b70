package ports

import (
	"context"
	"time"
)

type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// InvalidationEvent announces a settled mutation to other consoles.
type InvalidationEvent struct {
	Resource string       `json:"resource"`
	ID       string       `json:"id,omitempty"`
	Kind     MutationKind `json:"kind"`
	Origin   string       `json:"origin"`
	At       time.Time    `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event InvalidationEvent) error
	Close() error
}
