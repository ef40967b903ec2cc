package executor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Worker repeatedly pops a runnable from a shared ReadyQueue and polls it
// once. Exactly one Worker per Executor is "elected": when its pop would
// otherwise find the queue empty, it drives the Reactor instead, so I/O
// readiness is serviced without dedicating a whole goroutine to it.
type Worker struct {
	id          int
	queue       *ReadyQueue
	reactor     *Reactor
	elected     bool
	pollTimeout time.Duration
	stop        *atomic.Bool
	logger      Logger
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		if w.stop.Load() {
			return
		}
		r, err := w.dequeue()
		if err != nil {
			if w.logger != nil {
				w.logger.Debug().Int(`worker`, w.id).Err(err).Log(`worker stopping: ready queue closed`)
			}
			return
		}
		if r == nil {
			// Elected worker drove the reactor and nothing became
			// runnable; loop around and try again.
			continue
		}
		w.pollOnce(r)
	}
}

// dequeue returns the next runnable, or (nil, nil) if the elected worker
// drove the Reactor without anything becoming ready.
func (w *Worker) dequeue() (*runnable, error) {
	if !w.elected || w.reactor == nil {
		return w.queue.Pop()
	}
	r, ok, err := w.queue.TryPop()
	if err != nil {
		return nil, err
	}
	if ok {
		return r, nil
	}
	if _, err := w.reactor.RunOnce(w.pollTimeout); err != nil && w.logger != nil {
		w.logger.Warning().Int(`worker`, w.id).Err(err).Log(`reactor poll failed`)
	}
	return nil, nil
}

func (w *Worker) pollOnce(r *runnable) {
	r.sched.Store(schedRunning)
	waker := newWaker(r, w.queue)
	cx := &Context{ctx: r.ctx, waker: waker}
	if w.logger != nil {
		w.logger.Debug().Int(`worker`, w.id).Uint64(`task_id`, r.id).Log(`polling task`)
	}
	done := r.poll(cx)
	r.afterPoll(done, w.queue)
}
