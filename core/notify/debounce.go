package notify

import (
	"sync"
	"time"
)

// DefaultWait is the quiet period after which a type's change fires.
const DefaultWait = 150 * time.Millisecond

// Timer is a scheduled task that can be stopped before it runs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pendingTask struct {
	timer Timer
	gen   uint64
}

// Debouncer coalesces Touch calls per key into one trailing call of fire.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	sched   Scheduler
	fire    func(key string)
	pending map[string]pendingTask
	gen     uint64
	closed  bool
}

// NewDebouncer creates a debouncer calling fire(key) wait after the last Touch(key).
func NewDebouncer(wait time.Duration, sched Scheduler, fire func(key string)) *Debouncer {
	if sched == nil {
		sched = realScheduler{}
	}
	return &Debouncer{
		wait:    wait,
		sched:   sched,
		fire:    fire,
		pending: make(map[string]pendingTask),
	}
}

// Touch (re)schedules the task of key, replacing a pending one.
func (d *Debouncer) Touch(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}
	d.gen++
	gen := d.gen
	timer := d.sched.AfterFunc(d.wait, func() { d.run(key, gen) })
	d.pending[key] = pendingTask{timer: timer, gen: gen}
}

func (d *Debouncer) run(key string, gen uint64) {
	d.mu.Lock()
	task, ok := d.pending[key]
	if !ok || task.gen != gen || d.closed {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	d.fire(key)
}

// Pending reports whether key has a scheduled task.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Close stops every pending task. Touch is a no-op afterwards.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key, task := range d.pending {
		task.timer.Stop()
		delete(d.pending, key)
	}
}
