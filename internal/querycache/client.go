// Package querycache is the process-wide, key-addressed cache of server responses shared by every
// console page.
//
// A Client is built once in main and injected. It de-duplicates concurrent fetches per key, serves
// stale data while revalidating in the background, refetches invalidated entries only while they are
// observed, and lets mutations cancel in-flight reads before editing cached data.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// ErrCancelled is returned to callers waiting on a fetch that Cancel or Remove aborted.
var ErrCancelled = errors.New("query cancelled")

type Client struct {
	mu    sync.Mutex
	store *cache.Cache

	defaults        Options
	logger          *slog.Logger
	now             func() time.Time
	snapshots       ports.SnapshotStore
	janitorInterval time.Duration

	nextObserver uint64
	ctx          context.Context
	stop         context.CancelFunc
}

func New(opts ...Option) *Client {
	c := &Client{
		defaults:        defaultOptions(),
		logger:          slog.Default(),
		now:             time.Now,
		janitorInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.store = cache.New(cache.NoExpiration, c.janitorInterval)
	c.store.OnEvicted(func(hash string, _ any) {
		c.logger.Debug("query evicted", "key", hash)
	})
	c.ctx, c.stop = context.WithCancel(context.Background())
	return c
}

// Close aborts every background fetch. The client must not be used afterwards.
func (c *Client) Close() {
	c.stop()
}

// Fetch returns the data for q.Key. Fresh data is returned as is; stale data is returned immediately
// while a background revalidation starts; a miss starts or joins the single in-flight request.
// A caller whose ctx ends stops waiting without affecting other callers of the same key.
func (c *Client) Fetch(ctx context.Context, q Query) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	c.bindLocked(e, q)
	now := c.now()

	if e.hasData {
		var notify []*Observer
		if e.stale(now) && e.fetching == nil {
			c.startLocked(e)
			notify = e.observerList()
		}
		data := e.data
		c.touchLocked(e)
		view := e.view(now)
		c.mu.Unlock()
		c.notify(notify, view)
		return data, nil
	}

	cl := e.fetching
	cold := cl == nil
	if cold {
		cl = c.startLocked(e)
	}
	decode := e.decode
	if e.hydrated {
		decode = nil
	}
	c.mu.Unlock()

	if cold {
		if data, ok := c.hydrate(ctx, e, decode); ok {
			return data, nil
		}
	}
	return wait(ctx, cl)
}

// Refetch forces a request for key regardless of staleness and waits for it. It joins an in-flight
// request when one exists.
func (c *Client) Refetch(ctx context.Context, q Query) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	c.bindLocked(e, q)
	cl := e.fetching
	if cl == nil {
		cl = c.startLocked(e)
	}
	view, notify := e.view(c.now()), e.observerList()
	c.mu.Unlock()

	c.notify(notify, view)
	return wait(ctx, cl)
}

// GetQueryData returns the cached data for key without fetching.
func (c *Client) GetQueryData(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// GetEntry returns the full view of key.
func (c *Client) GetEntry(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok {
		return Entry{}, false
	}
	return e.view(c.now()), true
}

// GetQueriesData snapshots every entry with data whose key starts with prefix, ordered by key.
func (c *Client) GetQueriesData(prefix Key) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var out []Entry
	for _, e := range c.matchLocked(prefix) {
		if e.hasData {
			out = append(out, e.view(now))
		}
	}
	return out
}

// SetQueryData replaces the data of key with updater(old) synchronously. old is nil when nothing is
// cached. No request is made.
func (c *Client) SetQueryData(key Key, updater func(old any) any) {
	c.mu.Lock()
	e := c.entryLocked(key)
	var old any
	if e.hasData {
		old = e.data
	}
	e.data = updater(old)
	e.hasData = true
	e.err = nil
	e.fetchedAt = c.now()
	c.touchLocked(e)
	view, notify := e.view(c.now()), e.observerList()
	c.mu.Unlock()

	c.notify(notify, view)
}

// Invalidate marks every entry under prefix stale. Observed entries refetch now; the rest refetch on
// their next observation. A request already in flight may have read the server before the change
// being signalled: for observed entries it is replaced by a new request whose result its waiters
// receive, otherwise its result lands as stale.
func (c *Client) Invalidate(prefix Key) int {
	type change struct {
		view      Entry
		observers []*Observer
	}

	c.mu.Lock()
	now := c.now()
	var changes []change
	var superseded []*call
	matched := c.matchLocked(prefix)
	for _, e := range matched {
		e.invalidated = true
		observed := len(e.observers) > 0 && e.fetcher != nil
		switch {
		case e.fetching != nil && observed:
			old := c.cancelLocked(e)
			old.next = c.startLocked(e)
			superseded = append(superseded, old)
		case e.fetching != nil:
			e.fetching.invalidated = true
		case observed:
			c.startLocked(e)
		}
		if len(e.observers) > 0 {
			changes = append(changes, change{view: e.view(now), observers: e.observerList()})
		}
	}
	c.mu.Unlock()

	for _, old := range superseded {
		old.cancel()
		go old.follow()
	}
	for _, ch := range changes {
		c.notify(ch.observers, ch.view)
	}
	c.logger.Debug("queries invalidated", "prefix", prefix.String(), "count", len(matched))
	return len(matched)
}

// Cancel aborts every in-flight request under prefix. Their results are never written and their
// waiters receive ErrCancelled. Cached data is left as it was.
func (c *Client) Cancel(prefix Key) int {
	c.mu.Lock()
	var cancelled []*call
	for _, e := range c.matchLocked(prefix) {
		if cl := c.cancelLocked(e); cl != nil {
			cancelled = append(cancelled, cl)
		}
	}
	c.mu.Unlock()

	for _, cl := range cancelled {
		cl.cancel()
		cl.finish(nil, ErrCancelled)
	}
	if len(cancelled) > 0 {
		c.logger.Debug("queries cancelled", "prefix", prefix.String(), "count", len(cancelled))
	}
	return len(cancelled)
}

// Remove drops every entry under prefix, cancelling its in-flight request.
func (c *Client) Remove(prefix Key) int {
	c.mu.Lock()
	var cancelled []*call
	matched := c.matchLocked(prefix)
	for _, e := range matched {
		if cl := c.cancelLocked(e); cl != nil {
			cancelled = append(cancelled, cl)
		}
		c.store.Delete(e.hash)
	}
	c.mu.Unlock()

	for _, cl := range cancelled {
		cl.cancel()
		cl.finish(nil, ErrCancelled)
	}
	return len(matched)
}

// Len counts the entries currently held.
func (c *Client) Len() int {
	return len(c.store.Items())
}

func (c *Client) entryLocked(key Key) *entry {
	if e, ok := c.lookupLocked(key); ok {
		return e
	}
	e := &entry{
		key:       append(Key(nil), key...),
		hash:      key.String(),
		opts:      c.defaults,
		observers: map[uint64]*Observer{},
	}
	c.store.Set(e.hash, e, e.opts.GCTime)
	return e
}

func (c *Client) lookupLocked(key Key) (*entry, bool) {
	item, ok := c.store.Get(key.String())
	if !ok {
		return nil, false
	}
	return item.(*entry), true
}

func (c *Client) matchLocked(prefix Key) []*entry {
	var out []*entry
	for _, item := range c.store.Items() {
		e := item.Object.(*entry)
		if e.key.HasPrefix(prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].hash < out[j].hash })
	return out
}

func (c *Client) bindLocked(e *entry, q Query) {
	if q.Fn != nil {
		e.fetcher = q.Fn
	}
	if q.Decode != nil {
		e.decode = q.Decode
	}
	e.opts = q.Options.merge(c.defaults)
}

// touchLocked restarts the gc timer. Observed or fetching entries never expire.
func (c *Client) touchLocked(e *entry) {
	ttl := e.opts.GCTime
	if len(e.observers) > 0 || e.fetching != nil {
		ttl = cache.NoExpiration
	}
	c.store.Set(e.hash, e, ttl)
}

func (c *Client) cancelLocked(e *entry) *call {
	cl := e.fetching
	if cl == nil {
		return nil
	}
	e.generation++
	e.fetching = nil
	c.touchLocked(e)
	return cl
}

func (c *Client) startLocked(e *entry) *call {
	ctx, cancel := context.WithCancel(c.ctx)
	cl := &call{done: make(chan struct{}), generation: e.generation, cancel: cancel}
	e.fetching = cl
	c.touchLocked(e)

	fetcher, opts := e.fetcher, e.opts
	go c.run(ctx, e, cl, fetcher, opts)
	return cl
}

func (c *Client) run(ctx context.Context, e *entry, cl *call, fetcher Fetcher, opts Options) {
	defer cl.cancel()

	var (
		data any
		err  error
	)
	if fetcher == nil {
		err = errors.New("no fetcher registered for " + e.hash)
	} else {
		data, err = c.attempt(ctx, fetcher, opts)
	}

	c.mu.Lock()
	if e.fetching != cl || e.generation != cl.generation {
		handedOver := cl.next != nil
		c.mu.Unlock()
		if !handedOver {
			cl.finish(nil, ErrCancelled)
		}
		return
	}
	e.fetching = nil
	now := c.now()
	if err == nil {
		e.data, e.hasData = data, true
		e.fetchedAt = now
		e.invalidated = cl.invalidated
		e.err = nil
	} else {
		e.err = err
	}
	c.touchLocked(e)
	view, notify := e.view(now), e.observerList()
	c.mu.Unlock()

	cl.finish(data, err)
	c.notify(notify, view)

	if err != nil {
		c.logger.Warn("query failed", "key", e.hash, "error", err)
		return
	}
	c.persist(e.hash, data, now)
}

func (c *Client) attempt(ctx context.Context, fetcher Fetcher, opts Options) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= opts.Retry; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(opts.RetryDelay(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		data, err := fetcher(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if opts.Retryable == nil || !opts.Retryable(err) {
			break
		}
		c.logger.Debug("retrying query", "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

// hydrate serves a persisted snapshot on a cold miss. The snapshot is installed as stale data; the
// request already started for the miss revalidates it.
func (c *Client) hydrate(ctx context.Context, e *entry, decode Decoder) (any, bool) {
	if c.snapshots == nil || decode == nil {
		return nil, false
	}
	raw, fetchedAt, found, err := c.snapshots.Load(ctx, e.hash)
	if err != nil {
		c.logger.Warn("snapshot load failed", "key", e.hash, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	data, err := decode(raw)
	if err != nil {
		c.logger.Warn("snapshot decode failed", "key", e.hash, "error", err)
		return nil, false
	}

	c.mu.Lock()
	if e.hasData || e.hydrated {
		c.mu.Unlock()
		return nil, false
	}
	e.hydrated = true
	e.data, e.hasData = data, true
	e.fetchedAt = fetchedAt
	e.invalidated = true
	view, notify := e.view(c.now()), e.observerList()
	c.mu.Unlock()

	c.notify(notify, view)
	return data, true
}

func (c *Client) persist(hash string, data any, fetchedAt time.Time) {
	if c.snapshots == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("snapshot encode failed", "key", hash, "error", err)
		return
	}
	if err := c.snapshots.Save(c.ctx, hash, raw, fetchedAt); err != nil {
		c.logger.Warn("snapshot save failed", "key", hash, "error", err)
	}
}

func (c *Client) notify(observers []*Observer, view Entry) {
	for _, o := range observers {
		if o.onChange != nil {
			o.onChange(view)
		}
	}
}

func (e *entry) observerList() []*Observer {
	out := make([]*Observer, 0, len(e.observers))
	for _, o := range e.observers {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func wait(ctx context.Context, cl *call) (any, error) {
	select {
	case <-cl.done:
		return cl.data, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
