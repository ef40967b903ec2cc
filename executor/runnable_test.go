package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnableScheduleCoalescesWhileQueued(t *testing.T) {
	q := NewReadyQueue()
	r := newTestRunnable(1, 0)

	r.schedule(q)
	r.schedule(q)
	r.schedule(q)

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, schedQueued, r.sched.Load())
}

func TestRunnableScheduleWhileRunningRepollsOnce(t *testing.T) {
	q := NewReadyQueue()
	r := newTestRunnable(1, 0)
	r.sched.Store(schedRunning)

	r.schedule(q)
	r.schedule(q)
	r.schedule(q)
	assert.Equal(t, schedRunningRepoll, r.sched.Load())
	assert.Equal(t, 0, q.Len())

	r.afterPoll(false, q)
	assert.Equal(t, schedQueued, r.sched.Load())
	assert.Equal(t, 1, q.Len())
}

func TestRunnableAfterPollIdleWhenNotWoken(t *testing.T) {
	q := NewReadyQueue()
	r := newTestRunnable(1, 0)
	r.sched.Store(schedRunning)

	r.afterPoll(false, q)
	assert.Equal(t, schedIdle, r.sched.Load())
	assert.Equal(t, 0, q.Len())
}

func TestRunnableAfterPollDonePinsStateRegardlessOfWakeup(t *testing.T) {
	q := NewReadyQueue()
	r := newTestRunnable(1, 0)
	r.sched.Store(schedRunningRepoll)

	r.afterPoll(true, q)
	assert.Equal(t, schedDone, r.sched.Load())
	assert.Equal(t, 0, q.Len())

	// A wake delivered after completion is a no-op: Done tasks are never
	// polled again.
	r.schedule(q)
	assert.Equal(t, schedDone, r.sched.Load())
	assert.Equal(t, 0, q.Len())
}

func TestNewRunnableContainsPanic(t *testing.T) {
	var gotErr error
	r := newRunnable[int](nil, 1, 0, FutureFunc[int](func(*Context) (int, bool, error) {
		panic("boom")
	}), func(v int, err error) {
		gotErr = err
	}, nil)

	done := r.poll(&Context{waker: newWaker(r, NewReadyQueue())})
	require.True(t, done)
	var pf *PollFailure
	require.ErrorAs(t, gotErr, &pf)
	assert.Equal(t, "boom", pf.Recovered)
}
