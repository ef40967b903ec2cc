package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/ichigo-dev/eagle/executor"
)

const requestBufferSize = 4096

// fixedReply is the illustrative response every accepted connection
// receives after its request has been read: this server demonstrates the
// Reactor-driven accept/read/write path, not an HTTP implementation.
const fixedReply = "HTTP/1.1 200 OK\r\nContent-Length: 13\r\nConnection: close\r\n\r\nHello, Eagle!"

// EagleServer binds a TCP address and serves connections on an Executor's
// Reactor. Construct one with EagleServerBuilder.
type EagleServer struct {
	address    string
	numWorkers int
	logger     executor.Logger
}

func newEagleServer(address string, numWorkers int, logger executor.Logger) *EagleServer {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &EagleServer{address: address, numWorkers: numWorkers, logger: logger}
}

// Run binds the listen address, spawns the accept loop as a Task on a
// fresh Executor, and blocks until ctx is cancelled or an unrecoverable
// error occurs.
func (s *EagleServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("eagle: listen %s: %w", s.address, err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return fmt.Errorf("eagle: listener for %s is not a TCP listener", s.address)
	}
	defer tcpLn.Close()

	listenFd, err := rawFd(tcpLn)
	if err != nil {
		return fmt.Errorf("eagle: extract listener fd: %w", err)
	}
	if err := unix.SetNonblock(listenFd, true); err != nil {
		return fmt.Errorf("eagle: set listener nonblocking: %w", err)
	}

	ex, err := executor.New(s.numWorkers, executor.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("eagle: construct executor: %w", err)
	}
	ex.Start()
	defer ex.Close()

	accept := &acceptFuture{fd: listenFd, ex: ex, reactor: ex.Reactor()}
	if _, err := executor.BlockOn(ctx, ex, accept); err != nil {
		// BlockOn races ctx.Done against the accept task itself noticing
		// cancellation (which only happens on its next readiness poll), so
		// a cancelled ctx surfaces here as ctx.Err() far more often than
		// not. That is a clean shutdown, not a failure.
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil
		}
		return fmt.Errorf("eagle: accept loop: %w", err)
	}
	return nil
}

// rawFd extracts the raw file descriptor backing ln without duplicating it:
// the returned fd still belongs to ln, which remains responsible for
// closing it. Only raw syscalls (never ln.Accept/Read/Write) are used
// against this fd from that point on, since Go's own network poller and
// this package's Reactor must not both try to own its readiness callbacks.
func rawFd(ln *net.TCPListener) (int, error) {
	sc, err := ln.SyscallConn()
	if err != nil {
		return -1, err
	}
	var fd int
	if err := sc.Control(func(raw uintptr) { fd = int(raw) }); err != nil {
		return -1, err
	}
	return fd, nil
}

// acceptFuture drains the listener's accept queue on every readiness event,
// spawning one connFuture Task per accepted connection. It resolves cleanly
// once its context is cancelled, and with an error if Accept4 or the
// Reactor registration fails.
type acceptFuture struct {
	fd      int
	ex      *executor.Executor
	reactor *executor.Reactor
}

func (a *acceptFuture) Poll(cx *executor.Context) (struct{}, bool, error) {
	select {
	case <-cx.Context().Done():
		return struct{}{}, true, nil
	default:
	}
	for {
		connFd, _, err := unix.Accept4(a.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				if err := a.reactor.Register(a.fd, executor.EventReadable, cx.Waker()); err != nil {
					return struct{}{}, true, err
				}
				return struct{}{}, false, nil
			}
			return struct{}{}, true, err
		}
		if _, err := executor.Spawn(a.ex, &connFuture{fd: connFd, reactor: a.reactor}); err != nil {
			unix.Close(connFd)
		}
	}
}

const (
	connStageReading = iota
	connStageWriting
)

// connFuture reads one request (up to requestBufferSize bytes) then writes
// fixedReply, closing the connection once the reply is fully flushed or an
// unrecoverable error occurs.
type connFuture struct {
	fd      int
	reactor *executor.Reactor
	stage   int
	reply   []byte
	written int
}

func (c *connFuture) Poll(cx *executor.Context) (struct{}, bool, error) {
	switch c.stage {
	case connStageReading:
		return c.pollRead(cx)
	default:
		return c.pollWrite(cx)
	}
}

func (c *connFuture) pollRead(cx *executor.Context) (struct{}, bool, error) {
	buf := make([]byte, requestBufferSize)
	_, err := unix.Read(c.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			if err := c.reactor.Register(c.fd, executor.EventReadable, cx.Waker()); err != nil {
				c.close()
				return struct{}{}, true, err
			}
			return struct{}{}, false, nil
		}
		c.close()
		return struct{}{}, true, err
	}
	c.stage = connStageWriting
	c.reply = []byte(fixedReply)
	return c.pollWrite(cx)
}

func (c *connFuture) pollWrite(cx *executor.Context) (struct{}, bool, error) {
	for c.written < len(c.reply) {
		n, err := unix.Write(c.fd, c.reply[c.written:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				if err := c.reactor.Register(c.fd, executor.EventWritable, cx.Waker()); err != nil {
					c.close()
					return struct{}{}, true, err
				}
				return struct{}{}, false, nil
			}
			c.close()
			return struct{}{}, true, err
		}
		c.written += n
	}
	c.close()
	return struct{}{}, true, nil
}

// close deregisters the connection from the Reactor before closing it, so a
// later connection that reuses the same fd number is added to the poller
// afresh instead of being treated as already armed.
func (c *connFuture) close() {
	_ = c.reactor.Deregister(c.fd)
	unix.Close(c.fd)
}
