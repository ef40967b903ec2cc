package executor

// Waker is a handle that reschedules the task it was issued for. A Waker is
// an ordinary Go value: the garbage collector keeps the underlying task
// alive for as long as any Waker (or Clone of one) referencing it exists, so
// Wake is always safe to call and there is nothing to release when a Waker
// goes out of scope.
type Waker struct {
	r *runnable
	q *ReadyQueue
}

func newWaker(r *runnable, q *ReadyQueue) *Waker {
	return &Waker{r: r, q: q}
}

// Wake reschedules this Waker's task. Calling Wake (or
// WakeByRef) any number of times, from any number of goroutines, before the
// next poll coalesces into at most one subsequent poll.
func (w *Waker) Wake() { w.r.schedule(w.q) }

// WakeByRef has the same effect as Wake, spelled out separately for callers
// that want to keep using w afterwards without calling Clone first. A Go
// Waker is never consumed by waking it, so the two methods are equivalent.
func (w *Waker) WakeByRef() { w.r.schedule(w.q) }

// Clone returns a Waker referencing the same task. The returned value can
// be handed to another goroutine, stored, or discarded independently of w.
func (w *Waker) Clone() *Waker {
	return &Waker{r: w.r, q: w.q}
}
