package vlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleBothEdges(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewThrottle(sched, 100*time.Millisecond, Both, func() { calls++ })

	l.Call()
	assert.Equal(t, 1, calls, "leading edge runs immediately")
	sched.Advance(10 * time.Millisecond)
	l.Call()
	l.Call()
	assert.Equal(t, 1, calls)
	assert.True(t, l.Pending())

	sched.Advance(90 * time.Millisecond)
	assert.Equal(t, 2, calls, "trailing edge runs once for the burst")
	assert.True(t, l.Active(), "trailing call opens a new window")

	sched.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, calls)
	assert.False(t, l.Active())

	l.Call()
	assert.Equal(t, 3, calls)
}

func TestThrottleTrailingOnly(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewThrottle(sched, 200*time.Millisecond, Trailing, func() { calls++ })

	l.Call()
	sched.Advance(50 * time.Millisecond)
	l.Call()
	assert.Zero(t, calls)

	sched.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, calls)
	sched.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.Zero(t, sched.Pending())
}

func TestThrottleLeadingOnly(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewThrottle(sched, 100*time.Millisecond, Leading, func() { calls++ })

	l.Call()
	l.Call()
	sched.Advance(time.Second)
	assert.Equal(t, 1, calls)
	assert.False(t, l.Pending())
}

func TestDebounceTrailing(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewDebounce(sched, 200*time.Millisecond, Trailing, func() { calls++ })

	l.Call()
	sched.Advance(150 * time.Millisecond)
	l.Call()
	sched.Advance(150 * time.Millisecond)
	assert.Zero(t, calls, "each call restarts the window")

	sched.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.False(t, l.Active())
	assert.Zero(t, sched.Pending())
}

func TestDebounceLeading(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewDebounce(sched, 200*time.Millisecond, Both, func() { calls++ })

	l.Call()
	assert.Equal(t, 1, calls)
	l.Call()
	sched.Advance(200 * time.Millisecond)
	assert.Equal(t, 2, calls)
}

func TestLimiterCancel(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewThrottle(sched, 100*time.Millisecond, Trailing, func() { calls++ })

	l.Call()
	l.Cancel()
	assert.False(t, l.Active())
	assert.False(t, l.Pending())
	assert.Zero(t, sched.Pending())

	sched.Advance(time.Second)
	assert.Zero(t, calls)
}
