package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

const editLeaseTTL = 30 * time.Second

// Draft is the page-scoped, never shared state of a form. Input holds only writable fields.
type Draft[I any] struct {
	Input       I
	FieldErrors map[string]string
	ServerError string
	Submitting  bool
}

// CanSubmit drives the enabled state of the submit control.
func (d Draft[I]) CanSubmit() bool { return !d.Submitting }

// FormSubmitter validates a draft, sends it once, and settles the cache on success.
type FormSubmitter[T any, I any] struct {
	deps    Deps
	intent  func(I) Intent
	send    func(ctx context.Context, input I) (T, error)
	initial I
	after   string

	mu    sync.Mutex
	draft Draft[I]
}

func newFormSubmitter[T any, I any](deps Deps, initial I, intent func(I) Intent, send func(context.Context, I) (T, error), after string) *FormSubmitter[T, I] {
	return &FormSubmitter[T, I]{
		deps:    deps,
		intent:  intent,
		send:    send,
		initial: initial,
		after:   after,
		draft:   Draft[I]{Input: initial},
	}
}

func (f *FormSubmitter[T, I]) Draft() Draft[I] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.draft
	if f.draft.FieldErrors != nil {
		out.FieldErrors = make(map[string]string, len(f.draft.FieldErrors))
		for k, v := range f.draft.FieldErrors {
			out.FieldErrors[k] = v
		}
	}
	return out
}

// Edit mutates the draft input. Edits are refused while a submit is in flight.
func (f *FormSubmitter[T, I]) Edit(fn func(input *I)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft.Submitting {
		return ErrSubmitInFlight
	}
	fn(&f.draft.Input)
	return nil
}

// Submit validates, sends and settles the draft. On success the draft is discarded and the
// navigator is sent to the list; on failure the draft is kept as typed.
func (f *FormSubmitter[T, I]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.draft.Submitting {
		f.mu.Unlock()
		return zero, ErrSubmitInFlight
	}
	f.draft.ServerError = ""
	f.draft.FieldErrors = nil
	if f.deps.Validator != nil {
		if err := f.deps.Validator.Validate(f.draft.Input); err != nil {
			var validationErr *apierr.ValidationError
			if errors.As(err, &validationErr) {
				f.draft.FieldErrors = validationErr.Fields
			}
			f.mu.Unlock()
			return zero, err
		}
	}
	f.draft.Submitting = true
	input := f.draft.Input
	f.mu.Unlock()

	intent := f.intent(input)
	item, err := f.sendWithLease(ctx, intent, input)

	f.mu.Lock()
	f.draft.Submitting = false
	if err != nil {
		f.draft.ServerError = apierr.UserMessage(err)
		if errors.Is(err, ErrEditInProgress) {
			f.draft.ServerError = ErrEditInProgress.Error()
		}
		var rejection *apierr.ServerRejection
		if errors.As(err, &rejection) && len(rejection.FieldErrors) > 0 {
			f.draft.FieldErrors = make(map[string]string, len(rejection.FieldErrors))
			for field, messages := range rejection.FieldErrors {
				if len(messages) > 0 {
					f.draft.FieldErrors[field] = messages[0]
				}
			}
		}
		message := f.draft.ServerError
		f.mu.Unlock()

		f.deps.notify(ports.NotifyError, message)
		return zero, err
	}
	f.draft = Draft[I]{Input: f.initial}
	f.mu.Unlock()

	f.deps.settle(ctx, intent)
	f.deps.notify(ports.NotifySuccess, successMessage(intent))
	f.deps.navigate(f.after)
	return item, nil
}

// sendWithLease holds the advisory edit lease of the record for the duration of an update.
func (f *FormSubmitter[T, I]) sendWithLease(ctx context.Context, intent Intent, input I) (T, error) {
	if intent.Kind != ports.MutationUpdate || f.deps.Locks == nil {
		return f.send(ctx, input)
	}

	var zero T
	lease := fmt.Sprintf("edit:%s:%s", intent.Resource.Name, intent.ID)
	acquired, err := f.deps.Locks.Acquire(ctx, lease, editLeaseTTL)
	if err != nil {
		// Redis being down must not block editing.
		f.deps.logger().Warn("Edit lease unavailable", "lease", lease, "error", err)
		return f.send(ctx, input)
	}
	if !acquired {
		return zero, ErrEditInProgress
	}
	defer func() {
		if err := f.deps.Locks.Release(context.WithoutCancel(ctx), lease); err != nil {
			f.deps.logger().Warn("Failed to release edit lease", "lease", lease, "error", err)
		}
	}()
	return f.send(ctx, input)
}

func successMessage(intent Intent) string {
	switch intent.Kind {
	case ports.MutationCreate:
		return intent.Resource.Label + " created."
	case ports.MutationUpdate:
		return intent.Resource.Label + " updated."
	}
	return intent.Resource.Label + " saved."
}
