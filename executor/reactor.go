package executor

import (
	"sync"
	"time"
)

// IOEvent is a bitmask of I/O readiness conditions a file descriptor can be
// registered for.
type IOEvent uint8

const (
	// EventReadable indicates the descriptor has data to read (or, for a
	// listening socket, a pending connection to accept).
	EventReadable IOEvent = 1 << iota
	// EventWritable indicates the descriptor can accept a write without
	// blocking.
	EventWritable
)

// readyFD is one descriptor reported ready by a platformPoller.wait call.
type readyFD struct {
	fd     int
	events IOEvent
}

// platformPoller is the OS-specific half of the Reactor: a thin wrapper
// around the platform's readiness-notification facility (epoll on Linux).
type platformPoller interface {
	init() error
	add(fd int, events IOEvent) error
	modify(fd int, events IOEvent) error
	remove(fd int) error
	wait(timeout time.Duration) ([]readyFD, error)
	close() error
}

// Reactor multiplexes I/O readiness onto Wakers. A Future blocked on a
// file descriptor registers its Context's Waker against that descriptor;
// the next RunOnce call that observes the descriptor ready fires every
// Waker registered against it and clears that registration, so a steady
// stream of readiness on a descriptor nobody re-registers for doesn't keep
// waking stale tasks.
type Reactor struct {
	mu     sync.Mutex
	poller platformPoller
	wakers map[int][]*Waker
	armed  map[int]bool
	closed bool
	logger Logger
}

// NewReactor constructs a Reactor with its own platform poller.
func NewReactor(opts ...Option) (*Reactor, error) {
	return newReactor(resolveOptions(opts))
}

func newReactor(cfg *config) (*Reactor, error) {
	p := newPlatformPoller()
	if err := p.init(); err != nil {
		return nil, &ReactorError{Op: "init", Err: err}
	}
	return &Reactor{
		poller: p,
		wakers: make(map[int][]*Waker),
		armed:  make(map[int]bool),
		logger: cfg.logger,
	}, nil
}

// Register arms fd for interest, appending w to the set of Wakers that fire
// the next time fd becomes ready for one of those events. Registering the
// same fd again (e.g. after a previous readiness event fired and cleared
// the waker set) is cheap and expected: Futures re-arm themselves on every
// EAGAIN. Whether fd is already armed with the poller is tracked separately
// from its pending waker list: RunOnce firing a fd's wakers does not
// unregister it from the poller (it is level-triggered and stays armed
// until Deregister), so a later Register against the same fd must still
// issue EPOLL_CTL_MOD rather than EPOLL_CTL_ADD.
func (r *Reactor) Register(fd int, interest IOEvent, w *Waker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrReactorClosed
	}
	r.wakers[fd] = append(r.wakers[fd], w)
	var err error
	if r.armed[fd] {
		err = r.poller.modify(fd, interest)
	} else {
		err = r.poller.add(fd, interest)
	}
	if err != nil {
		return &ReactorError{Op: "register", Err: err}
	}
	r.armed[fd] = true
	return nil
}

// Deregister removes fd from the poller entirely, dropping any Wakers still
// pending against it. Callers close the descriptor themselves; Deregister
// only stops the Reactor from watching it.
func (r *Reactor) Deregister(fd int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrReactorClosed
	}
	if !r.armed[fd] {
		return nil
	}
	delete(r.wakers, fd)
	delete(r.armed, fd)
	if err := r.poller.remove(fd); err != nil {
		return &ReactorError{Op: "deregister", Err: err}
	}
	return nil
}

// RunOnce blocks for up to timeout waiting for at least one registered
// descriptor to become ready (a negative timeout blocks indefinitely, zero
// returns immediately), then fires and clears the Wakers registered against
// every descriptor reported ready, returning how many Wakers fired. The fd
// stays armed with the poller (see Register) until Deregister removes it.
func (r *Reactor) RunOnce(timeout time.Duration) (int, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrReactorClosed
	}
	poller := r.poller
	r.mu.Unlock()

	ready, err := poller.wait(timeout)
	if err != nil {
		return 0, &ReactorError{Op: "wait", Err: err}
	}

	fired := 0
	for _, rd := range ready {
		r.mu.Lock()
		wakers := r.wakers[rd.fd]
		delete(r.wakers, rd.fd)
		r.mu.Unlock()
		for _, w := range wakers {
			w.Wake()
			fired++
		}
	}
	return fired, nil
}

// Close shuts the Reactor's poller down. Close is not idempotent-safe to
// call concurrently with RunOnce; callers stop calling RunOnce (by joining
// the Worker that drives it) before closing, the same ordering Executor.Close
// enforces.
func (r *Reactor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.poller.close()
}
