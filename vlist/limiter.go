package vlist

import "time"

// Scheduler runs f once after d has elapsed. The callback must be delivered
// on the host's event loop, never concurrently with other session calls.
// stop cancels a pending callback and reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// Edge selects which end of a rate-limit window invokes the wrapped function.
type Edge uint8

const (
	Leading Edge = 1 << iota
	Trailing
	Both = Leading | Trailing
)

type limiterKind uint8

const (
	throttle limiterKind = iota
	debounce
)

// Limiter is a timer-driven throttle or debounce around a function.
//
// A throttle invokes at most once per window: on the leading edge when the
// window opens and, if calls arrived meanwhile, on the trailing edge, which
// opens the next window. A debounce restarts its window on every call and
// invokes once the calls stop.
type Limiter struct {
	kind  limiterKind
	sched Scheduler
	wait  time.Duration
	edge  Edge
	fn    func()

	stop    func() bool
	gen     uint64
	pending bool
}

// NewThrottle returns a throttling Limiter with the given window and edges.
func NewThrottle(s Scheduler, wait time.Duration, edge Edge, fn func()) *Limiter {
	return &Limiter{kind: throttle, sched: s, wait: wait, edge: edge, fn: fn}
}

// NewDebounce returns a debouncing Limiter with the given window and edges.
func NewDebounce(s Scheduler, wait time.Duration, edge Edge, fn func()) *Limiter {
	return &Limiter{kind: debounce, sched: s, wait: wait, edge: edge, fn: fn}
}

// Call requests an invocation of the wrapped function.
func (l *Limiter) Call() {
	idle := l.stop == nil
	switch l.kind {
	case throttle:
		if !idle {
			l.pending = true
			return
		}
		l.leadOrDefer()
		l.arm()
	case debounce:
		if idle {
			l.leadOrDefer()
		} else {
			l.disarm()
			l.pending = true
		}
		l.arm()
	}
}

// Active reports whether a window is currently open.
func (l *Limiter) Active() bool { return l.stop != nil }

// Pending reports whether a trailing invocation is queued.
func (l *Limiter) Pending() bool { return l.pending }

// Cancel closes the current window and drops any trailing invocation.
func (l *Limiter) Cancel() {
	l.disarm()
	l.pending = false
}

func (l *Limiter) leadOrDefer() {
	if l.edge&Leading != 0 {
		l.pending = false
		l.fn()
		return
	}
	l.pending = true
}

func (l *Limiter) arm() {
	l.gen++
	gen := l.gen
	l.stop = l.sched.AfterFunc(l.wait, func() { l.fire(gen) })
}

func (l *Limiter) disarm() {
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	l.gen++
}

func (l *Limiter) fire(gen uint64) {
	if gen != l.gen {
		return
	}
	l.stop = nil
	if !l.pending || l.edge&Trailing == 0 {
		l.pending = false
		return
	}
	l.pending = false
	l.fn()
	if l.kind == throttle && l.stop == nil {
		l.arm()
	}
}
