// Package poll manages recurring refresh timers, one per owner. Owners are
// independent concerns (page content, status indicator) with independent
// intervals; a failing tick never stops its schedule, and a tick whose owner
// is no longer the active page is skipped at fire time.
package poll

import (
	"log/slog"
	"sync"
	"time"
)

// TickFunc performs one refresh. Errors are logged and surfaced through the
// scheduler's notice hook; they never propagate to the timer.
type TickFunc func() error

// ActiveFunc reports whether the owner may fire right now. The check happens
// at fire time, not at registration time, so a navigated-away page's timer
// cannot trigger a stale refresh.
type ActiveFunc func(owner string) bool

type timerState struct {
	interval time.Duration
	tick     TickFunc
	timer    *time.Timer
	// gen guards against a stale AfterFunc firing after Start replaced the
	// owner's timer.
	gen uint64
}

// Scheduler owns every refresh timer. At most one timer is live per owner.
type Scheduler struct {
	active ActiveFunc
	log    *slog.Logger
	// notice receives tick failures for UI surfacing (transient notification).
	notice func(owner string, err error)

	mu      sync.Mutex
	timers  map[string]*timerState
	nextGen uint64
}

// New creates a scheduler. active may be nil (every owner always fires);
// log may be nil (discards); notice may be nil.
func New(active ActiveFunc, log *slog.Logger, notice func(owner string, err error)) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		active: active,
		log:    log,
		notice: notice,
		timers: make(map[string]*timerState),
	}
}

// Start schedules tick every interval for owner. If the owner already has a
// live timer it is stopped first; there is never more than one per owner.
func (s *Scheduler) Start(owner string, interval time.Duration, tick TickFunc) {
	if interval <= 0 || tick == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[owner]; ok {
		prev.timer.Stop()
	}
	s.nextGen++
	st := &timerState{interval: interval, tick: tick, gen: s.nextGen}
	s.timers[owner] = st
	st.timer = time.AfterFunc(interval, func() { s.fire(owner, st.gen) })
}

// Stop cancels the owner's timer. Stopping an inactive or unknown owner is a
// no-op, not an error.
func (s *Scheduler) Stop(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.timers[owner]; ok {
		st.timer.Stop()
		delete(s.timers, owner)
	}
}

// StopAll cancels every timer (used on shutdown).
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, st := range s.timers {
		st.timer.Stop()
		delete(s.timers, owner)
	}
}

// Running reports whether owner has a live timer.
func (s *Scheduler) Running(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[owner]
	return ok
}

func (s *Scheduler) fire(owner string, gen uint64) {
	s.mu.Lock()
	st, ok := s.timers[owner]
	if !ok || st.gen != gen {
		// Stopped or replaced since this fire was scheduled.
		s.mu.Unlock()
		return
	}
	tick := st.tick
	s.mu.Unlock()

	if s.active == nil || s.active(owner) {
		if err := tick(); err != nil {
			// The tick simply skips the refresh it couldn't complete; the
			// schedule keeps going.
			s.log.Warn("poll tick failed", "owner", owner, "err", err)
			if s.notice != nil {
				s.notice(owner, err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok = s.timers[owner]
	if !ok || st.gen != gen {
		return
	}
	st.timer = time.AfterFunc(st.interval, func() { s.fire(owner, gen) })
}
