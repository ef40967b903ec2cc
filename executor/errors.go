package executor

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. Use errors.Is to match them
// through any wrapping.
var (
	// ErrQueueClosed is returned by ReadyQueue.Pop/TryPop once Close has
	// been called and no further items remain.
	ErrQueueClosed = errors.New("executor: ready queue is closed")

	// ErrExecutorClosed is returned by Spawn once Close has been called.
	ErrExecutorClosed = errors.New("executor: executor is closed")

	// ErrNoResult is returned by BlockOn when the executor shuts down
	// before the awaited task completes. Go has no equivalent to a
	// dropped oneshot sender firing a RecvError, so a closed shutdown
	// channel plays that role instead.
	ErrNoResult = errors.New("executor: block_on returned without a result (executor shut down)")

	// ErrReactorClosed is returned by Reactor methods after Close.
	ErrReactorClosed = errors.New("executor: reactor is closed")

	// ErrUnsupportedPlatform is returned by the Reactor's poller on
	// platforms without an epoll-based implementation.
	ErrUnsupportedPlatform = errors.New("executor: reactor poller is not implemented on this platform")

	// ErrNoWorkers is returned by Spawn when the Executor was constructed
	// with zero workers: with nothing ever draining the ReadyQueue, a
	// spawned task could never make progress, so Spawn rejects it
	// outright rather than accept work that can never run.
	ErrNoWorkers = errors.New("executor: executor has zero workers and cannot make progress")
)

// PollFailure wraps a value recovered from a panicking Future.Poll call.
// Go's sync.Mutex has no "poisoning" concept, so a panicking poll is
// contained with recover and surfaced as a PollFailure instead of crashing
// the Worker goroutine; the task that panicked completes with this error
// and is never polled again.
type PollFailure struct {
	Recovered any
}

func (e *PollFailure) Error() string {
	return fmt.Sprintf("executor: task poll panicked: %v", e.Recovered)
}

func newPollFailure(recovered any) error {
	return &PollFailure{Recovered: recovered}
}

// ReactorError wraps a failure returned by the underlying platform poller
// (epoll_create1, epoll_ctl, epoll_wait, ...).
type ReactorError struct {
	Op  string
	Err error
}

func (e *ReactorError) Error() string {
	return fmt.Sprintf("executor: reactor %s: %v", e.Op, e.Err)
}

func (e *ReactorError) Unwrap() error { return e.Err }
