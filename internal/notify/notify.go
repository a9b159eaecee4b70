// Package notify implements the toast surface the pages report mutation outcomes to.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

type Toast struct {
	Kind    ports.NotifyKind
	Message string
	At      time.Time
}

// Queue keeps the most recent toasts and forwards each one to an optional listener channel.
type Queue struct {
	mu       sync.Mutex
	toasts   []Toast
	capacity int
	events   chan Toast
	now      func() time.Time
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 20
	}
	return &Queue{capacity: capacity, events: make(chan Toast, capacity), now: time.Now}
}

func (q *Queue) Notify(kind ports.NotifyKind, message string) {
	toast := Toast{Kind: kind, Message: message, At: q.now()}

	q.mu.Lock()
	q.toasts = append(q.toasts, toast)
	if len(q.toasts) > q.capacity {
		q.toasts = q.toasts[len(q.toasts)-q.capacity:]
	}
	q.mu.Unlock()

	select {
	case q.events <- toast:
	default:
	}
}

// Events delivers toasts as they arrive. Toasts are dropped from the channel, never from the
// queue, when nobody is reading.
func (q *Queue) Events() <-chan Toast { return q.events }

func (q *Queue) Toasts() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

func (q *Queue) Latest() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.toasts) == 0 {
		return Toast{}, false
	}
	return q.toasts[len(q.toasts)-1], true
}

// LogNotifier writes toasts to a structured logger; the non-interactive CLI uses it.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(kind ports.NotifyKind, message string) {
	if kind == ports.NotifyError {
		n.logger.Error(message, "kind", kind)
		return
	}
	n.logger.Info(message, "kind", kind)
}

// Tee fans a notification out to several notifiers.
type Tee []ports.Notifier

func (t Tee) Notify(kind ports.NotifyKind, message string) {
	for _, n := range t {
		n.Notify(kind, message)
	}
}
