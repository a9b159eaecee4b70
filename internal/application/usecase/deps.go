package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

var (
	ErrMutationPending = errors.New("another delete is still pending")
	ErrSubmitInFlight  = errors.New("form is already being submitted")
	ErrEditInProgress  = errors.New("this record is being edited by someone else, try again shortly")
	ErrNotMounted      = errors.New("page is not mounted")
	ErrNotDeletable    = errors.New("records of this resource cannot be deleted here")
)

// Deps are the collaborators shared by every page. Cache is the single process-wide instance.
// Events and Locks are optional.
type Deps struct {
	Cache     *querycache.Client
	Validator ports.Validator
	Navigator ports.Navigator
	Notifier  ports.Notifier
	Events    ports.EventPublisher
	Locks     ports.LockPort
	Origin    string
	Logger    *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) notify(kind ports.NotifyKind, message string) {
	if d.Notifier != nil {
		d.Notifier.Notify(kind, message)
	}
}

func (d Deps) navigate(path string) {
	if d.Navigator != nil {
		d.Navigator.Navigate(path)
	}
}

// Lister and Deleter are the parts of ports.Collection a list page needs.
type Lister[T any] interface {
	List(ctx context.Context, params url.Values) (record.Page[T], error)
}

type Deleter interface {
	Delete(ctx context.Context, id string) error
}
