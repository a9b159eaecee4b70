package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/victoragudo/hotel-management-system/console/internal/application/pagination"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/mocks"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

func mountBookings(t *testing.T, deps Deps, bookings *memCollection[record.Booking, record.BookingInput]) *ListPage[record.Booking] {
	t.Helper()
	page := NewListPage[record.Booking](deps, Bookings, bookings, bookings, pagination.NewOffsetPager(10), nil)
	page.Mount(context.Background())
	t.Cleanup(page.Unmount)
	require.Eventually(t, func() bool { return len(page.View().Items) == 10 }, time.Second, time.Millisecond)
	return page
}

func TestOptimisticDelete_ConfirmedDeleteKeepsItemGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	events := mocks.NewMockEventPublisher(ctrl)

	deps := newTestDeps(t)
	deps.Notifier = notifier
	deps.Events = events

	bookings := newBookings(12)
	page := mountBookings(t, deps, bookings)
	require.Contains(t, ids(page.View().Items), "B1")

	bookings.writeStarted = make(chan struct{})
	bookings.writeGate = make(chan struct{})

	notifier.EXPECT().Notify(ports.NotifySuccess, "Booking deleted.")
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event ports.InvalidationEvent) error {
		assert.Equal(t, "bookings", event.Resource)
		assert.Equal(t, "B1", event.ID)
		assert.Equal(t, ports.MutationDelete, event.Kind)
		assert.Equal(t, "console-test", event.Origin)
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- page.Delete(context.Background(), "B1") }()
	<-bookings.writeStarted

	// Removed before the server answers.
	view := page.View()
	assert.Len(t, view.Items, 9)
	assert.NotContains(t, ids(view.Items), "B1")
	assert.Equal(t, 11, *view.Total)
	assert.Equal(t, DeletePending, page.DeleteState())

	close(bookings.writeGate)
	require.NoError(t, <-done)

	// The invalidation refetches the observed page; B1 never comes back.
	require.Eventually(t, func() bool { return bookings.listCalls.Load() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		v := page.View()
		return !v.Refreshing && len(v.Items) == 10
	}, time.Second, time.Millisecond)
	assert.NotContains(t, ids(page.View().Items), "B1")
	assert.Equal(t, DeleteIdle, page.DeleteState())
}

func TestOptimisticDelete_ScenarioTenBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(ports.NotifySuccess, gomock.Any())

	deps := newTestDeps(t)
	deps.Notifier = notifier

	bookings := newBookings(10)
	page := mountBookings(t, deps, bookings)

	require.NoError(t, page.Delete(context.Background(), "B1"))
	assert.Len(t, page.View().Items, 9)

	require.Eventually(t, func() bool { return bookings.listCalls.Load() == 2 }, time.Second, time.Millisecond)
	require.Never(t, func() bool {
		return len(page.View().Items) != 9
	}, 50*time.Millisecond, 5*time.Millisecond)
	assert.NotContains(t, ids(page.View().Items), "B1")
}

func TestOptimisticDelete_FailureRestoresList(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	deps := newTestDeps(t)
	deps.Notifier = notifier

	bookings := newBookings(10)
	page := mountBookings(t, deps, bookings)

	bookings.deleteErr = &apierr.ServerRejection{StatusCode: 409, Message: "Checked-in bookings cannot be deleted."}
	notifier.EXPECT().Notify(ports.NotifyError, "Checked-in bookings cannot be deleted.")

	err := page.Delete(context.Background(), "B1")
	require.Error(t, err)

	view := page.View()
	assert.Len(t, view.Items, 10)
	assert.Contains(t, ids(view.Items), "B1")
	assert.Equal(t, 10, *view.Total)
}

func TestOptimisticDelete_RollbackRestoresExactSnapshot(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(0)
	bookings.deleteErr = &apierr.ServerRejection{StatusCode: 500}

	firstCount, secondCount := 20, 20
	first := record.Page[record.Booking]{Results: []record.Booking{{ID: "B1"}, {ID: "B2"}}, Count: &firstCount}
	second := record.Page[record.Booking]{Results: []record.Booking{{ID: "B11"}, {ID: "B1"}}, Count: &secondCount}
	untouched := record.Page[record.Booking]{Results: []record.Booking{{ID: "B21"}}}
	querycache.SetData(deps.Cache, querycache.Key{"bookings", 10, 0}, func(record.Page[record.Booking]) record.Page[record.Booking] { return first })
	querycache.SetData(deps.Cache, querycache.Key{"bookings", 10, 10}, func(record.Page[record.Booking]) record.Page[record.Booking] { return second })
	querycache.SetData(deps.Cache, querycache.Key{"bookings", 10, 20}, func(record.Page[record.Booking]) record.Page[record.Booking] { return untouched })

	snapshot := func() map[string]any {
		out := map[string]any{}
		for _, entry := range deps.Cache.GetQueriesData(Bookings.ListPrefix()) {
			out[entry.Key.String()] = entry.Data
		}
		return out
	}
	before := snapshot()

	del := NewOptimisticDelete[record.Booking](deps, Bookings, bookings)
	err := del.Delete(context.Background(), "B1")
	require.Error(t, err)

	assert.Equal(t, before, snapshot())
	assert.Equal(t, DeleteFailed, del.LastOutcome())
	assert.Equal(t, DeleteIdle, del.State())
	assert.Equal(t, int32(0), bookings.listCalls.Load(), "unobserved pages are only marked stale")
}

func TestOptimisticDelete_RejectsConcurrentDelete(t *testing.T) {
	deps := newTestDeps(t)
	bookings := newBookings(10)
	bookings.writeStarted = make(chan struct{})
	bookings.writeGate = make(chan struct{})

	del := NewOptimisticDelete[record.Booking](deps, Bookings, bookings)

	done := make(chan error, 1)
	go func() { done <- del.Delete(context.Background(), "B1") }()
	<-bookings.writeStarted

	assert.ErrorIs(t, del.Delete(context.Background(), "B2"), ErrMutationPending)
	close(bookings.writeGate)
	require.NoError(t, <-done)
	assert.Equal(t, DeleteSucceeded, del.LastOutcome())
	assert.Equal(t, int32(1), bookings.deleteCalls.Load())
}

func TestOptimisticDelete_CancelsInFlightRead(t *testing.T) {
	deps := newTestDeps(t)
	key := querycache.Key{"bookings", 10, 0}
	page := record.Page[record.Booking]{Results: []record.Booking{{ID: "B1"}, {ID: "B2"}}}
	querycache.SetData(deps.Cache, key, func(record.Page[record.Booking]) record.Page[record.Booking] { return page })

	started := make(chan struct{})
	release := make(chan struct{})
	slowRead := querycache.TypedQuery(key, func(ctx context.Context) (record.Page[record.Booking], error) {
		close(started)
		<-release
		return page, nil
	}, querycache.Options{})
	go func() { _, _ = deps.Cache.Refetch(context.Background(), slowRead) }()
	<-started

	bookings := newBookings(2)
	del := NewOptimisticDelete[record.Booking](deps, Bookings, bookings)
	require.NoError(t, del.Delete(context.Background(), "B1"))
	close(release)

	assert.Never(t, func() bool {
		got, _ := querycache.Data[record.Page[record.Booking]](deps.Cache, key)
		return len(got.Results) != 1
	}, 50*time.Millisecond, 5*time.Millisecond)
}
