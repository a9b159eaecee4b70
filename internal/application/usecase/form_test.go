package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/mocks"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

func TestCreatePage_CreatedRecordListedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	navigator := mocks.NewMockNavigator(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	deps := newTestDeps(t)
	deps.Navigator = navigator
	deps.Notifier = notifier

	hotelTypes := newHotelTypes("Resort", "Hostel")
	list := NewListPage[record.HotelType](deps, HotelTypes, hotelTypes, hotelTypes, nil, nil)
	list.Mount(context.Background())
	defer list.Unmount()
	require.Eventually(t, func() bool { return len(list.View().Items) == 2 }, time.Second, time.Millisecond)

	create := NewCreatePage[record.HotelType](deps, HotelTypes, hotelTypes, record.HotelTypeInput{})
	require.NoError(t, create.Edit(func(in *record.HotelTypeInput) {
		in.Name = "Boutique"
		in.Description = "Small and stylish"
	}))

	notifier.EXPECT().Notify(ports.NotifySuccess, "Hotel type created.")
	navigator.EXPECT().Navigate("/hotel-types")

	created, err := create.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Boutique", created.Name)
	assert.Equal(t, record.HotelTypeInput{}, create.Form().Draft().Input, "draft is discarded")

	require.Eventually(t, func() bool { return len(list.View().Items) == 3 }, time.Second, time.Millisecond)
	count := 0
	for _, item := range list.View().Items {
		if item.Name == "Boutique" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreatePage_ValidationNeverReachesNetwork(t *testing.T) {
	deps := newTestDeps(t)
	hotelTypes := newHotelTypes()
	create := NewCreatePage[record.HotelType](deps, HotelTypes, hotelTypes, record.HotelTypeInput{})

	_, err := create.Submit(context.Background())

	var validationErr *apierr.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, int32(0), hotelTypes.createCalls.Load())
	draft := create.Form().Draft()
	assert.Equal(t, "This field is required.", draft.FieldErrors["name"])
	assert.False(t, draft.Submitting)
}

func TestCreatePage_FailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantFields  map[string]string
	}{
		{
			name:        "server message surfaced verbatim",
			err:         apierr.ParseRejection(400, []byte(`{"name":["Hotel type with this name already exists."]}`)),
			wantMessage: "name: Hotel type with this name already exists.",
			wantFields:  map[string]string{"name": "Hotel type with this name already exists."},
		},
		{
			name:        "generic fallback without a server message",
			err:         &apierr.NetworkError{Method: "POST", Path: "v1/hotel-types/", Err: errors.New("connection reset")},
			wantMessage: apierr.GenericMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := mocks.NewMockNotifier(ctrl)
			navigator := mocks.NewMockNavigator(ctrl)

			deps := newTestDeps(t)
			deps.Notifier = notifier
			deps.Navigator = navigator

			hotelTypes := newHotelTypes("Resort")
			hotelTypes.createErr = tt.err
			create := NewCreatePage[record.HotelType](deps, HotelTypes, hotelTypes, record.HotelTypeInput{})
			require.NoError(t, create.Edit(func(in *record.HotelTypeInput) { in.Name = "Resort" }))

			notifier.EXPECT().Notify(ports.NotifyError, tt.wantMessage)

			_, err := create.Submit(context.Background())
			require.Error(t, err)

			draft := create.Form().Draft()
			assert.Equal(t, "Resort", draft.Input.Name)
			assert.Equal(t, tt.wantMessage, draft.ServerError)
			assert.Equal(t, tt.wantFields, draft.FieldErrors)
			assert.True(t, draft.CanSubmit())
		})
	}
}

func TestCreatePage_SingleSubmitInFlight(t *testing.T) {
	deps := newTestDeps(t)
	hotelTypes := newHotelTypes()
	hotelTypes.writeStarted = make(chan struct{})
	hotelTypes.writeGate = make(chan struct{})

	create := NewCreatePage[record.HotelType](deps, HotelTypes, hotelTypes, record.HotelTypeInput{Name: "Resort"})

	done := make(chan error, 1)
	go func() {
		_, err := create.Submit(context.Background())
		done <- err
	}()
	<-hotelTypes.writeStarted

	assert.False(t, create.Form().Draft().CanSubmit())
	_, err := create.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, create.Edit(func(in *record.HotelTypeInput) { in.Name = "x" }), ErrSubmitInFlight)

	close(hotelTypes.writeGate)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), hotelTypes.createCalls.Load())
}

func TestDetailPage_EditInvalidatesDetailAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	navigator := mocks.NewMockNavigator(ctrl)
	locks := mocks.NewMockLockPort(ctrl)

	deps := newTestDeps(t)
	deps.Navigator = navigator
	deps.Locks = locks

	hotelTypes := newHotelTypes("Resort", "Hostel")
	detail := NewDetailPage[record.HotelType](deps, HotelTypes, hotelTypes)

	_, err := detail.Submit(context.Background())
	require.ErrorIs(t, err, ErrNotMounted)

	require.NoError(t, detail.Mount(context.Background(), "1"))
	item, err := detail.Record()
	require.NoError(t, err)
	assert.Equal(t, "Resort", item.Name)

	form, err := detail.Form()
	require.NoError(t, err)
	assert.Equal(t, record.HotelTypeInput{Name: "Resort"}, form.Draft().Input)

	// A cached list page that must be marked stale by the edit.
	require.NoError(t, PrefetchList[record.HotelType](deps, HotelTypes, hotelTypes, 10).Run(context.Background()))
	require.Len(t, deps.Cache.GetQueriesData(HotelTypes.ListPrefix()), 1)

	require.NoError(t, detail.Edit(func(in *record.HotelTypeInput) { in.Name = "Beach resort" }))

	gomock.InOrder(
		locks.EXPECT().Acquire(gomock.Any(), "edit:hotel-types:1", editLeaseTTL).Return(true, nil),
		locks.EXPECT().Release(gomock.Any(), "edit:hotel-types:1").Return(nil),
	)
	navigator.EXPECT().Navigate("/hotel-types")

	updated, err := detail.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Beach resort", updated.Name)

	detailEntry, ok := deps.Cache.GetEntry(HotelTypes.DetailKeyFor("1"))
	require.True(t, ok)
	assert.True(t, detailEntry.IsStale)
	for _, entry := range deps.Cache.GetQueriesData(HotelTypes.ListPrefix()) {
		assert.True(t, entry.IsStale, entry.Key.String())
	}
}

func TestDetailPage_EditLeaseHeldElsewhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockLockPort(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	deps := newTestDeps(t)
	deps.Locks = locks
	deps.Notifier = notifier

	hotelTypes := newHotelTypes("Resort")
	detail := NewDetailPage[record.HotelType](deps, HotelTypes, hotelTypes)
	require.NoError(t, detail.Mount(context.Background(), "1"))

	locks.EXPECT().Acquire(gomock.Any(), "edit:hotel-types:1", editLeaseTTL).Return(false, nil)
	notifier.EXPECT().Notify(ports.NotifyError, ErrEditInProgress.Error())

	_, err := detail.Submit(context.Background())
	require.ErrorIs(t, err, ErrEditInProgress)
	assert.Equal(t, int32(0), hotelTypes.updateCalls.Load())
}

func TestDetailPage_MissingRecord(t *testing.T) {
	deps := newTestDeps(t)
	detail := NewDetailPage[record.HotelType](deps, HotelTypes, newHotelTypes())

	err := detail.Mount(context.Background(), "404")
	var rejection *apierr.ServerRejection
	require.ErrorAs(t, err, &rejection)
	assert.True(t, rejection.NotFound())

	_, err = detail.Form()
	assert.ErrorIs(t, err, ErrNotMounted)
}
