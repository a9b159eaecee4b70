package querycache

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type FetchStatus string

const (
	FetchIdle     FetchStatus = "idle"
	FetchFetching FetchStatus = "fetching"
)

// Entry is a read-only view of one cached query.
type Entry struct {
	Key         Key
	Data        any
	FetchedAt   time.Time
	IsStale     bool
	Err         error
	Status      Status
	FetchStatus FetchStatus
}

// IsLoading reports a first fetch still outstanding.
func (e Entry) IsLoading() bool {
	return e.Data == nil && e.FetchStatus == FetchFetching
}

type entry struct {
	key  Key
	hash string

	data        any
	hasData     bool
	fetchedAt   time.Time
	invalidated bool
	err         error

	fetcher Fetcher
	decode  Decoder
	opts    Options

	fetching   *call
	generation uint64
	observers  map[uint64]*Observer
	hydrated   bool
}

func (e *entry) stale(now time.Time) bool {
	if !e.hasData || e.invalidated {
		return true
	}
	return now.Sub(e.fetchedAt) > e.opts.StaleTime
}

func (e *entry) view(now time.Time) Entry {
	out := Entry{
		Key:         e.key,
		Data:        e.data,
		FetchedAt:   e.fetchedAt,
		IsStale:     e.stale(now),
		Err:         e.err,
		FetchStatus: FetchIdle,
	}
	switch {
	case e.err != nil:
		out.Status = StatusError
	case e.hasData:
		out.Status = StatusSuccess
	default:
		out.Status = StatusPending
	}
	if e.fetching != nil {
		out.FetchStatus = FetchFetching
	}
	return out
}

// call is one in-flight request shared by every caller of the same key.
type call struct {
	done       chan struct{}
	once       sync.Once
	data       any
	err        error
	generation uint64
	cancel     context.CancelFunc

	// invalidated is set when the entry was invalidated while the call was in flight.
	invalidated bool
	// next replaces a superseded call; its result is handed to this call's waiters.
	next        *call
}

func (c *call) follow() {
	<-c.next.done
	c.finish(c.next.data, c.next.err)
}

func (c *call) finish(data any, err error) {
	c.once.Do(func() {
		c.data, c.err = data, err
		close(c.done)
	})
}
