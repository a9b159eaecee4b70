package usecase

import (
	"context"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoragudo/hotel-management-system/console/internal/application/pagination"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

func TestListPage_ConcurrentMountsShareOneRequest(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(15)
	bookings.listGate = make(chan struct{})

	first := NewListPage[record.Booking](deps, Bookings, bookings, nil, pagination.NewOffsetPager(10), nil)
	second := NewListPage[record.Booking](deps, Bookings, bookings, nil, pagination.NewOffsetPager(10), nil)
	first.Mount(context.Background())
	second.Mount(context.Background())
	defer first.Unmount()
	defer second.Unmount()

	assert.True(t, first.View().Loading)
	assert.Equal(t, querycache.Key{"bookings", 10, 0}, first.Key())

	close(bookings.listGate)
	require.Eventually(t, func() bool {
		return len(first.View().Items) == 10 && len(second.View().Items) == 10
	}, time.Second, time.Millisecond)

	assert.Equal(t, int32(1), bookings.listCalls.Load())
	assert.Equal(t, first.View().Items, second.View().Items)
}

func TestListPage_Paging(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(25)

	page := NewListPage[record.Booking](deps, Bookings, bookings, nil, pagination.NewOffsetPager(10), nil)
	page.Mount(context.Background())
	defer page.Unmount()

	loaded := func(n int) func() bool {
		return func() bool {
			v := page.View()
			return !v.Loading && len(v.Items) == n
		}
	}

	require.Eventually(t, loaded(10), time.Second, time.Millisecond)
	view := page.View()
	assert.True(t, view.HasNext)
	assert.False(t, view.HasPrevious)
	assert.False(t, page.Previous(context.Background()))

	require.True(t, page.Next(context.Background()))
	require.Eventually(t, func() bool { return page.View().Items != nil && page.View().Items[0].ID == "B11" }, time.Second, time.Millisecond)
	assert.True(t, page.View().HasPrevious)

	require.True(t, page.Next(context.Background()))
	require.Eventually(t, loaded(5), time.Second, time.Millisecond)
	view = page.View()
	assert.False(t, view.HasNext, "a short page disables next")
	assert.True(t, view.HasPrevious)
	assert.False(t, page.Next(context.Background()))

	// Going back is served from the cache.
	calls := bookings.listCalls.Load()
	require.True(t, page.Previous(context.Background()))
	assert.Len(t, page.View().Items, 10)
	assert.Equal(t, calls, bookings.listCalls.Load())
	assert.Equal(t, querycache.Key{"bookings", 10, 10}, page.Key())
}

func TestListPage_CursorPaging(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(15)
	resource := Bookings
	resource.Cursor = true

	page := NewListPage[record.Booking](deps, resource, bookings, nil, resource.Pager(10), nil)
	page.Mount(context.Background())
	defer page.Unmount()

	require.Eventually(t, func() bool { return len(page.View().Items) == 10 }, time.Second, time.Millisecond)
	assert.Equal(t, querycache.Key{"bookings", 10, ""}, page.Key())
	assert.True(t, page.View().HasNext)
	assert.False(t, page.View().HasPrevious)

	require.True(t, page.Next(context.Background()))
	require.Eventually(t, func() bool { return len(page.View().Items) == 5 }, time.Second, time.Millisecond)
	assert.Equal(t, querycache.Key{"bookings", 10, "http://api.test/v1/bookings/?limit=10&offset=10"}, page.Key())
	assert.Equal(t, "B11", page.View().Items[0].ID)
	assert.False(t, page.View().HasNext)
	assert.True(t, page.View().HasPrevious)

	require.True(t, page.Previous(context.Background()))
	require.Eventually(t, func() bool { return len(page.View().Items) == 10 }, time.Second, time.Millisecond)
	assert.Equal(t, "B1", page.View().Items[0].ID)
}

func TestListPage_RefreshAndErrors(t *testing.T) {
	deps := newTestDeps(t)
	failing := &failingLister{err: &apierr.ServerRejection{StatusCode: 403, Message: "You do not have permission to perform this action."}}

	var changes atomic.Int32
	page := NewListPage[record.Hotel](deps, Hotels, failing, nil, nil, func(ListView[record.Hotel]) {
		changes.Add(1)
	})
	page.Mount(context.Background())
	defer page.Unmount()

	require.Eventually(t, func() bool { return page.View().Err != nil }, time.Second, time.Millisecond)
	assert.Equal(t, "You do not have permission to perform this action.", apierr.UserMessage(page.View().Err))
	assert.Empty(t, page.View().Items)
	assert.ErrorIs(t, page.Delete(context.Background(), "h1"), ErrNotDeletable)

	page.Refresh()
	require.Eventually(t, func() bool { return failing.calls() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return changes.Load() > 0 }, time.Second, time.Millisecond)
}

type failingLister struct {
	err error
	n   atomic.Int32
}

func (f *failingLister) List(context.Context, url.Values) (record.Page[record.Hotel], error) {
	f.n.Add(1)
	return record.Page[record.Hotel]{}, f.err
}

func (f *failingLister) calls() int32 { return f.n.Load() }

func TestListPage_UnmountIgnoresLateResults(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(10)
	bookings.listGate = make(chan struct{})

	changes := make(chan ListView[record.Booking], 10)
	page := NewListPage[record.Booking](deps, Bookings, bookings, nil, nil, func(v ListView[record.Booking]) {
		changes <- v
	})
	page.Mount(context.Background())
	page.Unmount()
	close(bookings.listGate)

	assert.Never(t, func() bool { return len(changes) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, ListView[record.Booking]{}, page.View())
}
