// Package notify implements the notification port: a timed toast queue for the
// console and a plain printer for headless commands.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/logging"
)

const (
	// DefaultDisplay is how long a toast stays fully visible.
	DefaultDisplay = 4 * time.Second
	// FadeDuration is how long a toast stays in the fading phase before removal.
	FadeDuration = 200 * time.Millisecond
)

// Phase is the display phase of a toast.
type Phase int

const (
	PhaseVisible Phase = iota
	PhaseFading
)

// Toast is a snapshot of one queued notification.
type Toast struct {
	ID        port.NotificationID
	Message   string
	Type      port.NotificationType
	Phase     Phase
	CreatedAt time.Time
}

type entry struct {
	toast Toast
	timer clockwork.Timer
}

// Queue holds the visible toasts. Every toast is shown, in arrival order,
// and removed on its own timer.
type Queue struct {
	clock   clockwork.Clock
	display time.Duration

	mu      sync.Mutex
	entries []*entry

	listenersMu sync.Mutex
	listeners   []func()
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithDisplay sets how long toasts stay visible when Show is given no duration.
func WithDisplay(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.display = d
		}
	}
}

// NewQueue creates an empty queue driven by clock.
func NewQueue(clock clockwork.Clock, opts ...QueueOption) *Queue {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	q := &Queue{clock: clock, display: DefaultDisplay}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// OnChange registers fn to be called after any toast appears, fades or goes away.
func (q *Queue) OnChange(fn func()) {
	q.listenersMu.Lock()
	defer q.listenersMu.Unlock()
	q.listeners = append(q.listeners, fn)
}

func (q *Queue) changed() {
	q.listenersMu.Lock()
	fns := append([]func(){}, q.listeners...)
	q.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Show appends a toast. durationMs <= 0 selects the queue's display time.
func (q *Queue) Show(ctx context.Context, message string, notifType port.NotificationType, durationMs int) port.NotificationID {
	display := q.display
	if durationMs > 0 {
		display = time.Duration(durationMs) * time.Millisecond
	}

	id := port.NotificationID(uuid.NewString())
	e := &entry{toast: Toast{
		ID:        id,
		Message:   message,
		Type:      notifType,
		Phase:     PhaseVisible,
		CreatedAt: q.clock.Now(),
	}}

	q.mu.Lock()
	q.entries = append(q.entries, e)
	e.timer = q.clock.AfterFunc(display, func() { q.fade(id) })
	q.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("id", string(id)).
		Str("type", notifType.String()).
		Str("message", message).
		Msg("toast shown")

	q.changed()
	return id
}

func (q *Queue) fade(id port.NotificationID) {
	q.mu.Lock()
	e := q.find(id)
	if e == nil || e.toast.Phase != PhaseVisible {
		q.mu.Unlock()
		return
	}
	e.toast.Phase = PhaseFading
	e.timer = q.clock.AfterFunc(FadeDuration, func() { q.remove(id) })
	q.mu.Unlock()
	q.changed()
}

func (q *Queue) remove(id port.NotificationID) {
	q.mu.Lock()
	removed := false
	for i, e := range q.entries {
		if e.toast.ID == id {
			if e.timer != nil {
				e.timer.Stop()
			}
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			removed = true
			break
		}
	}
	q.mu.Unlock()
	if removed {
		q.changed()
	}
}

// find must be called with q.mu held.
func (q *Queue) find(id port.NotificationID) *entry {
	for _, e := range q.entries {
		if e.toast.ID == id {
			return e
		}
	}
	return nil
}

// Dismiss removes a toast before its timer runs out.
func (q *Queue) Dismiss(_ context.Context, id port.NotificationID) {
	q.remove(id)
}

// Clear removes every toast.
func (q *Queue) Clear(_ context.Context) {
	q.mu.Lock()
	n := len(q.entries)
	for _, e := range q.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	q.entries = nil
	q.mu.Unlock()
	if n > 0 {
		q.changed()
	}
}

// Visible returns the queued toasts, oldest first.
func (q *Queue) Visible() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.toast
	}
	return out
}

var _ port.Notification = (*Queue)(nil)
