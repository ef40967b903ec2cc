package executor

import (
	"container/heap"
	"sync"
)

// taskHeap is a max-heap by priority with FIFO tie-break, implemented as a
// container/heap min-heap whose Less is inverted (the container/heap docs
// describe exactly this trick for a priority queue that pops the largest
// element first).
type taskHeap []*runnable

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	// Lower id was pushed first: break ties FIFO.
	return h[i].id < h[j].id
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*runnable)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// ReadyQueue is the priority-ordered queue of runnable tasks shared by every
// Worker. A task appears in it at most once at a time: the scheduling state
// machine on runnable enforces that invariant, not the queue itself.
type ReadyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	heap   taskHeap
	closed bool
}

// NewReadyQueue constructs an empty, open ReadyQueue.
func NewReadyQueue() *ReadyQueue {
	q := &ReadyQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *ReadyQueue) push(r *runnable) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	heap.Push(&q.heap, r)
	q.cond.Signal()
	return nil
}

// Pop blocks until a task is available or the queue is closed, returning
// the highest-priority task (FIFO among equal priorities).
func (q *ReadyQueue) Pop() (*runnable, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.heap) == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		q.cond.Wait()
	}
	return heap.Pop(&q.heap).(*runnable), nil
}

// TryPop returns immediately: (task, true, nil) if one was available,
// (nil, false, nil) if the queue was empty, or (nil, false, err) if closed.
func (q *ReadyQueue) TryPop() (*runnable, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed && len(q.heap) == 0 {
		return nil, false, ErrQueueClosed
	}
	if len(q.heap) == 0 {
		return nil, false, nil
	}
	return heap.Pop(&q.heap).(*runnable), true, nil
}

// Len reports the number of tasks currently queued.
func (q *ReadyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Close marks the queue closed and wakes every blocked Pop, which then
// return ErrQueueClosed once drained. Close is idempotent.
func (q *ReadyQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
