// Package executor implements a cooperative, multi-threaded task scheduler:
// a small pool of Worker goroutines drains a priority-ordered ReadyQueue of
// poll-based Future values, coalescing redundant wakeups so a task is never
// queued more than once at a time.
//
// # Architecture
//
// A Future[T] is polled by a Worker until it reports completion. Futures
// that cannot make progress register a Waker (via the Context passed to
// Poll) and return pending; whoever holds that Waker later calls Wake to
// reschedule the task. Spawn hands a Future to an Executor and returns a
// Task[T] handle that can itself be awaited as a Future[T], so tasks can be
// composed ("spawn one, wait on it from within another"). BlockOn bridges a
// Future into a blocking call for use from outside the executor.
//
// A Reactor complements the scheduler for I/O-bound Futures: it wraps a
// platform poller (epoll on Linux) and fires the Waker registered against a
// file descriptor once that descriptor becomes ready.
package executor
