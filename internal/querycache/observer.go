package querycache

import (
	"context"
	"sync"
)

// Observer is a mounted view of one key. While at least one observer exists the entry never expires
// and invalidation refetches it immediately.
type Observer struct {
	id       uint64
	client   *Client
	key      Key
	onChange func(Entry)
	once     sync.Once
}

// Observe mounts q.Key without blocking. A missing or stale entry is fetched in the background;
// onChange receives every later state change of the entry, never from within Observe itself.
func (c *Client) Observe(ctx context.Context, q Query, onChange func(Entry)) *Observer {
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	c.bindLocked(e, q)

	c.nextObserver++
	o := &Observer{id: c.nextObserver, client: c, key: e.key, onChange: onChange}
	e.observers[o.id] = o

	cold := !e.hasData && e.fetching == nil
	if e.stale(c.now()) && e.fetching == nil {
		c.startLocked(e)
	}
	c.touchLocked(e)
	decode := e.decode
	if e.hydrated {
		decode = nil
	}
	c.mu.Unlock()

	if cold {
		go c.hydrate(context.WithoutCancel(ctx), e, decode)
	}
	return o
}

func (o *Observer) Key() Key { return o.key }

// Entry returns the current state of the observed key.
func (o *Observer) Entry() Entry {
	entry, _ := o.client.GetEntry(o.key)
	return entry
}

// Unsubscribe unmounts the observer. Once the last observer leaves, the entry expires after its
// gc time unless observed again.
func (o *Observer) Unsubscribe() {
	o.once.Do(func() {
		c := o.client
		c.mu.Lock()
		defer c.mu.Unlock()

		e, ok := c.lookupLocked(o.key)
		if !ok {
			return
		}
		delete(e.observers, o.id)
		c.touchLocked(e)
	})
}
