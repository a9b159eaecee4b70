package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// memCollection is an in-memory REST resource with hooks to hold or fail calls.
type memCollection[T record.Identifiable, I any] struct {
	name  string
	build func(id string, input I) T

	mu     sync.Mutex
	items  []T
	nextID int

	listCalls   atomic.Int32
	createCalls atomic.Int32
	updateCalls atomic.Int32
	deleteCalls atomic.Int32

	listGate     chan struct{}
	writeStarted chan struct{}
	writeGate    chan struct{}
	createErr    error
	updateErr    error
	deleteErr    error
}

func newMemCollection[T record.Identifiable, I any](name string, build func(string, I) T, items ...T) *memCollection[T, I] {
	return &memCollection[T, I]{name: name, build: build, items: items, nextID: len(items) + 1}
}

func (m *memCollection[T, I]) Name() string { return m.name }

func (m *memCollection[T, I]) List(ctx context.Context, params url.Values) (record.Page[T], error) {
	m.listCalls.Add(1)
	if m.listGate != nil {
		select {
		case <-m.listGate:
		case <-ctx.Done():
			return record.Page[T]{}, ctx.Err()
		}
	}

	limit, _ := strconv.Atoi(params.Get("limit"))
	offset, _ := strconv.Atoi(params.Get("offset"))

	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.items)
	start := min(offset, total)
	end := min(start+limit, total)
	page := record.Page[T]{Results: append([]T{}, m.items[start:end]...), Count: &total}
	if end < total {
		next := fmt.Sprintf("http://api.test/v1/%s/?limit=%d&offset=%d", m.name, limit, end)
		page.Next = &next
	}
	if start > 0 {
		previous := fmt.Sprintf("http://api.test/v1/%s/?limit=%d&offset=%d", m.name, limit, max(start-limit, 0))
		page.Previous = &previous
	}
	return page, nil
}

func (m *memCollection[T, I]) Get(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.Identifier() == id {
			return item, nil
		}
	}
	var zero T
	return zero, &apierr.ServerRejection{StatusCode: 404, Message: "Not found."}
}

func (m *memCollection[T, I]) Create(ctx context.Context, input I) (T, error) {
	m.createCalls.Add(1)
	var zero T
	if err := m.hold(ctx); err != nil {
		return zero, err
	}
	if m.createErr != nil {
		return zero, m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.build(strconv.Itoa(m.nextID), input)
	m.nextID++
	m.items = append(m.items, item)
	return item, nil
}

func (m *memCollection[T, I]) Update(ctx context.Context, id string, input I) (T, error) {
	m.updateCalls.Add(1)
	var zero T
	if err := m.hold(ctx); err != nil {
		return zero, err
	}
	if m.updateErr != nil {
		return zero, m.updateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.Identifier() == id {
			m.items[i] = m.build(id, input)
			return m.items[i], nil
		}
	}
	return zero, &apierr.ServerRejection{StatusCode: 404, Message: "Not found."}
}

func (m *memCollection[T, I]) Delete(ctx context.Context, id string) error {
	m.deleteCalls.Add(1)
	if err := m.hold(ctx); err != nil {
		return err
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.Identifier() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return &apierr.ServerRejection{StatusCode: 404, Message: "Not found."}
}

func (m *memCollection[T, I]) hold(ctx context.Context) error {
	if m.writeStarted != nil {
		m.writeStarted <- struct{}{}
	}
	if m.writeGate == nil {
		return nil
	}
	select {
	case <-m.writeGate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newBookings(n int) *memCollection[record.Booking, record.BookingInput] {
	items := make([]record.Booking, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, record.Booking{
			ID:        fmt.Sprintf("B%d", i),
			Reference: fmt.Sprintf("REF-%03d", i),
			GuestName: fmt.Sprintf("Guest %d", i),
			Status:    record.BookingStatusConfirmed,
		})
	}
	return newMemCollection("bookings", func(id string, in record.BookingInput) record.Booking {
		return record.Booking{ID: id, GuestName: in.GuestName, Status: in.Status, Notes: in.Notes}
	}, items...)
}

func newHotelTypes(names ...string) *memCollection[record.HotelType, record.HotelTypeInput] {
	items := make([]record.HotelType, 0, len(names))
	for i, name := range names {
		items = append(items, record.HotelType{ID: strconv.Itoa(i + 1), Name: name})
	}
	return newMemCollection("hotel-types", func(id string, in record.HotelTypeInput) record.HotelType {
		return record.HotelType{ID: id, Name: in.Name, Description: in.Description}
	}, items...)
}

func newTestCache(t *testing.T) *querycache.Client {
	t.Helper()
	c := querycache.New(
		querycache.WithDefaults(querycache.Options{RetryDelay: func(int) time.Duration { return 0 }}),
		querycache.WithLogger(discardLogger()),
	)
	t.Cleanup(c.Close)
	return c
}

func newTestDeps(t *testing.T) Deps {
	return Deps{
		Cache:     newTestCache(t),
		Validator: adapter.NewStructValidator(),
		Origin:    "console-test",
		Logger:    discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ids[T record.Identifiable](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Identifier())
	}
	return out
}
