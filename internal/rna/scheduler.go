package rna

import (
	"math"
	"sync"
	"time"
)

// DefaultTickInterval is the base delay between ticks at speed 1.0.
const DefaultTickInterval = 33 * time.Millisecond

// Scheduler invokes a step function at base/speed intervals.
//
// At most one tick is pending at any time. Every change of cadence or run
// state bumps a generation counter and cancels the pending timer, so a stale
// timer that already fired is discarded instead of rescheduling itself.
type Scheduler struct {
	mu      sync.Mutex
	step    func()
	base    time.Duration
	speed   float64
	running bool
	closed  bool
	timer   *time.Timer
	gen     uint64

	stepping bool // a step is in flight
	deferred bool // a timer fired while stepping
}

// NewScheduler creates a paused scheduler. A non-positive base interval uses
// DefaultTickInterval.
func NewScheduler(step func(), base time.Duration) *Scheduler {
	if base <= 0 {
		base = DefaultTickInterval
	}
	return &Scheduler{
		step:  step,
		base:  base,
		speed: 1.0,
	}
}

// Interval returns the current delay between ticks, or 0 when the speed
// does not allow scheduling. Speeds too small to express saturate at the
// longest Duration.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervalLocked()
}

func (s *Scheduler) intervalLocked() time.Duration {
	if s.speed <= 0 {
		return 0
	}
	f := float64(s.base) / s.speed
	if f >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	d := time.Duration(f)
	if d <= 0 {
		d = time.Nanosecond
	}
	return d
}

// SetBase changes the base interval and reschedules.
func (s *Scheduler) SetBase(base time.Duration) {
	if base <= 0 {
		base = DefaultTickInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.rescheduleLocked()
}

// Speed returns the current speed multiplier.
func (s *Scheduler) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// SetSpeed cancels any pending tick and reschedules at the new cadence.
// A speed of zero or less schedules nothing until a positive speed is set.
func (s *Scheduler) SetSpeed(speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
	s.rescheduleLocked()
}

// Start marks the scheduler running and schedules the next tick.
func (s *Scheduler) Start() {
	s.Resume()
}

// Resume marks the scheduler running and replaces any pending tick with a
// fresh one.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.running = true
	s.rescheduleLocked()
}

// Pause cancels the pending tick. No tick is scheduled until Resume.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.cancelLocked()
}

// Restart cancels the pending tick and, if running, schedules a new one.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rescheduleLocked()
}

// Running reports whether the scheduler is currently scheduling ticks.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Pending reports whether a tick is currently scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Close pauses the scheduler for good.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.running = false
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) rescheduleLocked() {
	s.cancelLocked()
	if !s.running || s.closed {
		return
	}
	interval := s.intervalLocked()
	if interval == 0 {
		return
	}
	gen := s.gen
	s.timer = time.AfterFunc(interval, func() { s.fire(gen) })
}

// fire runs one step for generation gen and schedules the following tick.
// Steps never overlap: a timer firing during a step is deferred until that
// step returns.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.running {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.stepping {
		s.deferred = true
		s.mu.Unlock()
		return
	}
	s.stepping = true
	s.mu.Unlock()

	s.step()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepping = false
	if !s.running || s.closed {
		s.deferred = false
		return
	}
	// A pause, reset or speed change during the step already replaced the
	// schedule, unless its tick came due while we were busy.
	if gen == s.gen || s.deferred {
		s.deferred = false
		s.rescheduleLocked()
	}
}
