package executor

import "context"

// Context is passed to every Future.Poll call. It carries the ambient
// cancellation context the task was spawned under and the Waker that, once
// called, reschedules this task for another poll.
type Context struct {
	ctx   context.Context
	waker *Waker
}

// Waker returns the Waker for this poll. It remains valid (and safe to
// Clone and call from any goroutine) after Poll returns.
func (c *Context) Waker() *Waker { return c.waker }

// Context returns the cancellation context the enclosing task was spawned
// or block_on'd with.
func (c *Context) Context() context.Context { return c.ctx }
