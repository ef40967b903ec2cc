package executor

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultPriority is the priority assigned to Spawn calls that don't
// specify one explicitly.
const DefaultPriority uint32 = 0

// Stats is a snapshot of executor-wide task counters, useful for tests and
// diagnostics.
type Stats struct {
	Spawned   uint64
	Completed uint64
	Failed    uint64
}

// Executor owns a ReadyQueue, a Reactor, and a pool of Worker goroutines.
// Construct one with New, call Start to launch the workers, Spawn tasks
// onto it (directly or via BlockOn), and Close it to shut everything down.
type Executor struct {
	queue   *ReadyQueue
	reactor *Reactor
	workers []*Worker
	logger  Logger

	wg        sync.WaitGroup
	started   atomic.Bool
	stop      atomic.Bool
	shutdown  chan struct{}
	closeOnce sync.Once

	nextID    atomic.Uint64
	spawned   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// New constructs an Executor with the given number of Worker goroutines and
// a Reactor built from the same options. numWorkers may be zero: the
// Executor is then constructed successfully but every Spawn call fails with
// ErrNoWorkers, since nothing would ever drain the ReadyQueue.
func New(numWorkers int, opts ...Option) (*Executor, error) {
	cfg := resolveOptions(opts)
	reactor, err := newReactor(cfg)
	if err != nil {
		return nil, err
	}
	ex := &Executor{
		queue:    NewReadyQueue(),
		reactor:  reactor,
		shutdown: make(chan struct{}),
		logger:   cfg.logger,
	}
	ex.workers = make([]*Worker, numWorkers)
	for i := range ex.workers {
		ex.workers[i] = &Worker{
			id:          i,
			queue:       ex.queue,
			reactor:     ex.reactor,
			elected:     i == 0,
			pollTimeout: cfg.reactorPollTimeout,
			stop:        &ex.stop,
			logger:      ex.logger,
		}
	}
	return ex, nil
}

// Start launches the worker pool. Calling Start more than once is a no-op.
func (ex *Executor) Start() {
	if !ex.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range ex.workers {
		ex.wg.Add(1)
		go w.run(&ex.wg)
	}
}

func (ex *Executor) enqueue(r *runnable) error {
	if ex.stop.Load() {
		return ErrExecutorClosed
	}
	r.schedule(ex.queue)
	return nil
}

// Spawn submits fut to ex under context.Background, returning a Task[T]
// handle immediately. fut is first polled by whichever Worker pops it,
// which may happen before or after Spawn returns. priority defaults to
// DefaultPriority; passing more than one value is a programmer error and
// only the first is honored. Use SpawnContext to give the task a
// cancellation context of its own.
func Spawn[T any](ex *Executor, fut Future[T], priority ...uint32) (*Task[T], error) {
	return SpawnContext[T](context.Background(), ex, fut, priority...)
}

// SpawnContext is Spawn with an explicit context, propagated to every Poll
// call as Context.Context so a Future can observe cancellation.
func SpawnContext[T any](ctx context.Context, ex *Executor, fut Future[T], priority ...uint32) (*Task[T], error) {
	if len(ex.workers) == 0 {
		return nil, ErrNoWorkers
	}
	p := DefaultPriority
	if len(priority) > 0 {
		p = priority[0]
	}
	id := ex.nextID.Add(1)
	task := &Task[T]{id: id, priority: p, done: make(chan struct{})}
	task.r = newRunnable[T](ctx, id, p, fut, func(v T, err error) {
		if err != nil {
			ex.failed.Add(1)
		} else {
			ex.completed.Add(1)
		}
		task.complete(v, err)
	}, ex.logger)
	ex.spawned.Add(1)
	if err := ex.enqueue(task.r); err != nil {
		return nil, err
	}
	return task, nil
}

// BlockOn spawns fut onto ex under ctx and blocks the calling goroutine
// until it resolves, ex shuts down (returning ErrNoResult), or ctx is
// cancelled (returning ctx.Err()). This is the bridge between synchronous
// callers and the cooperative scheduler.
func BlockOn[T any](ctx context.Context, ex *Executor, fut Future[T]) (T, error) {
	task, err := SpawnContext[T](ctx, ex, fut)
	if err != nil {
		var zero T
		return zero, err
	}
	select {
	case <-task.done:
		return task.value, task.err
	case <-ex.shutdown:
		var zero T
		return zero, ErrNoResult
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Reactor returns the Reactor this Executor's elected Worker drives. I/O
// bound Futures (see the server package) register file descriptors against
// it directly, since it is only ever polled from inside this Executor's
// worker loop.
func (ex *Executor) Reactor() *Reactor { return ex.reactor }

// Stats returns a snapshot of task counters.
func (ex *Executor) Stats() Stats {
	return Stats{
		Spawned:   ex.spawned.Load(),
		Completed: ex.completed.Load(),
		Failed:    ex.failed.Load(),
	}
}

// Close stops accepting new polls, closes the ReadyQueue (unblocking any
// Worker parked in Pop), waits for every Worker to exit, then closes the
// Reactor. Any BlockOn call still in flight observes ErrNoResult. Close is
// idempotent and safe to call without a prior Start.
func (ex *Executor) Close() error {
	ex.closeOnce.Do(func() {
		ex.stop.Store(true)
		close(ex.shutdown)
		ex.queue.Close()
		ex.wg.Wait()
		_ = ex.reactor.Close()
	})
	return nil
}
