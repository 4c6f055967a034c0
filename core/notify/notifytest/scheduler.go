// Package notifytest provides a manually advanced Scheduler for debounce tests.
package notifytest

import (
	"sort"
	"sync"
	"time"

	"entity-store/core/notify"
)

// ManualScheduler fires scheduled functions only when Advance moves its clock
// past their deadline. Safe for concurrent use.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements notify.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) notify.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every due timer in deadline
// order. Timers scheduled by those functions run too if they fall due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()

	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.f()
	}
}

func (s *ManualScheduler) nextDue() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at == s.timers[j].at {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at < s.timers[j].at
	})
	for i, t := range s.timers {
		if t.stopped {
			continue
		}
		if t.at > s.now {
			return nil
		}
		t.stopped = true
		s.timers = append(s.timers[:i:i], s.timers[i+1:]...)
		return t
	}
	return nil
}

// Pending returns the number of timers not yet fired or stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
