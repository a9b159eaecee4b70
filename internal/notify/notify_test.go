package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

func TestQueueKeepsMostRecentToasts(t *testing.T) {
	q := NewQueue(2)
	q.Notify(ports.NotifySuccess, "one")
	q.Notify(ports.NotifyError, "two")
	q.Notify(ports.NotifyInfo, "three")

	toasts := q.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "two", toasts[0].Message)
	assert.Equal(t, "three", toasts[1].Message)

	latest, ok := q.Latest()
	require.True(t, ok)
	assert.Equal(t, ports.NotifyInfo, latest.Kind)

	first := <-q.Events()
	assert.Equal(t, "one", first.Message)
}

func TestTeeAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	q := NewQueue(5)

	Tee{q, NewLogNotifier(logger)}.Notify(ports.NotifyError, "Booking could not be deleted")

	_, ok := q.Latest()
	assert.True(t, ok)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "Booking could not be deleted")
}
