package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/dashboard"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/handler"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/repository"
)

func newDevAPI(t *testing.T) string {
	t.Helper()
	stores := repository.NewMemoryStores()
	require.NoError(t, repository.Seed(context.Background(), stores, 15))

	server := httptest.NewServer(handler.NewRouter(handler.RouterOptions{
		Stores:    stores,
		Validator: adapter.NewStructValidator(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func newTestApplication(t *testing.T, profile string) *Application {
	t.Helper()
	dir := t.TempDir()
	config := "console:\n" +
		"  profile: " + profile + "\n" +
		"  api:\n" +
		"    base_url: " + newDevAPI(t) + "/\n" +
		"    max_retries: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o600))

	app, err := NewApplication(&Globals{Config: dir}, io.Discard)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func settledView(t *testing.T, app *Application, resource string) dashboard.PaneView {
	t.Helper()
	b, err := app.resource(resource)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pane := b.pane(app.deps, app.config.Cache.PageSize, nil)
	pane.Mount(ctx)
	defer pane.Unmount()

	view, err := waitSettled(ctx, pane, nil)
	require.NoError(t, err)
	require.NoError(t, view.Err)
	return view
}

func TestApplication_ListAndShow(t *testing.T) {
	app := newTestApplication(t, "admin")

	types := settledView(t, app, "hotel-types")
	require.Len(t, types.Rows, 3)
	rendered := renderTable(types)
	assert.Contains(t, rendered, "Resort")
	assert.Contains(t, rendered, "Hostel")

	bookings := settledView(t, app, "bookings")
	assert.Len(t, bookings.Rows, 10)
	assert.True(t, bookings.HasNext)
	assert.Equal(t, "page 1 · 15 total · --page 2 for next", pageSummary(1, bookings))

	hotels := settledView(t, app, "hotels")
	require.Len(t, hotels.Rows, 1)

	b, err := app.resource("hotels")
	require.NoError(t, err)
	item, err := b.show(context.Background(), app.deps, hotels.Rows[0].ID)
	require.NoError(t, err)
	hotel, ok := item.(record.Hotel)
	require.True(t, ok)
	assert.Equal(t, "Hotel Mirador", hotel.Name)
}

func TestApplication_Delete(t *testing.T) {
	app := newTestApplication(t, "admin")
	bookings := settledView(t, app, "bookings")
	id := bookings.Rows[0].ID

	b, err := app.resource("bookings")
	require.NoError(t, err)
	require.NoError(t, b.remove(context.Background(), app.deps, id))

	toast, ok := app.toasts.Latest()
	require.True(t, ok)
	assert.Equal(t, "Booking deleted.", toast.Message)

	_, err = b.show(context.Background(), app.deps, id)
	var rejection *apierr.ServerRejection
	require.True(t, errors.As(err, &rejection))
	assert.True(t, rejection.NotFound())
}

func TestApplication_CreateHotelTypeConflict(t *testing.T) {
	app := newTestApplication(t, "admin")
	require.NotNil(t, app.hotelTypes)

	page := usecase.NewCreatePage[record.HotelType, record.HotelTypeInput](app.deps, usecase.HotelTypes, app.hotelTypes, record.HotelTypeInput{})
	require.NoError(t, page.Edit(func(input *record.HotelTypeInput) { input.Name = "Resort" }))

	_, err := page.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "name: Hotel type with this name already exists.", describeSubmitError(err))
}

func TestApplication_VendorProfile(t *testing.T) {
	app := newTestApplication(t, "vendor")

	assert.Nil(t, app.hotelTypes)
	_, err := app.resource("hotel-types")
	assert.EqualError(t, err, `resource "hotel-types" is not part of the vendor console`)

	names := make([]string, 0, len(app.resources))
	for _, b := range app.resources {
		names = append(names, b.resource.Name)
	}
	assert.Equal(t, []string{"hotels", "rooms", "bookings"}, names)
}

func TestDescribeSubmitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation fields are sorted",
			err:  &apierr.ValidationError{Fields: map[string]string{"name": "This field is required.", "description": "Too long."}},
			want: "description: Too long.\nname: This field is required.",
		},
		{
			name: "server field errors",
			err:  &apierr.ServerRejection{StatusCode: 400, FieldErrors: map[string][]string{"name": {"Taken.", "Too short."}}},
			want: "name: Taken. Too short.",
		},
		{
			name: "server detail",
			err:  &apierr.ServerRejection{StatusCode: 409, Message: "Hotel type is used by 1 hotel(s) and cannot be deleted."},
			want: "Hotel type is used by 1 hotel(s) and cannot be deleted.",
		},
		{
			name: "anything else",
			err:  errors.New("dial tcp: refused"),
			want: apierr.GenericMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeSubmitError(tt.err))
		})
	}
}
