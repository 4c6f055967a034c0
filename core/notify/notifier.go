package notify

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Notifier.
type Option func(*Notifier)

// WithWait sets the debounce window.
func WithWait(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.wait = d
		}
	}
}

// WithScheduler replaces the wall-clock scheduler, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) {
		n.sched = s
	}
}

// WithLogger sets the logger used for emission traces.
func WithLogger(l *zap.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithObserver registers a callback invoked for each debounced emission,
// before handlers run. Used for metrics.
func WithObserver(fn func(typ string)) Option {
	return func(n *Notifier) {
		n.observe = fn
	}
}

// Notifier emits debounced per-type change events.
type Notifier struct {
	*Bus
	wait      time.Duration
	sched     Scheduler
	logger    *zap.Logger
	observe   func(typ string)
	debouncer *Debouncer
}

// New creates a Notifier with its own Bus.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		Bus:    NewBus(),
		wait:   DefaultWait,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.debouncer = NewDebouncer(n.wait, n.sched, n.emit)
	return n
}

// Changed schedules a change notification for typ.
func (n *Notifier) Changed(typ string) {
	n.debouncer.Touch(typ)
}

// Pending reports whether typ has a notification waiting for its quiet period.
func (n *Notifier) Pending(typ string) bool {
	return n.debouncer.Pending(typ)
}

// Close drops pending notifications.
func (n *Notifier) Close() {
	n.debouncer.Close()
}

func (n *Notifier) emit(typ string) {
	n.logger.Debug("Emitting change", zap.String("type", typ))
	if n.observe != nil {
		n.observe(typ)
	}
	n.Emit(Event{Topic: TopicChange, Type: typ})
	n.Emit(Event{Topic: TopicFor(typ), Type: typ})
}
