//go:build linux

package executor

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// epollPoller is the Linux platformPoller, built directly on epoll_create1,
// epoll_ctl, and epoll_wait.
type epollPoller struct {
	mu  sync.Mutex
	fd  int
	buf [256]unix.EpollEvent
}

func newPlatformPoller() platformPoller {
	return &epollPoller{fd: -1}
}

func (p *epollPoller) init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	p.fd = fd
	return nil
}

func (p *epollPoller) add(fd int, events IOEvent) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (p *epollPoller) modify(fd int, events IOEvent) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (p *epollPoller) remove(fd int) error {
	return unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) wait(timeout time.Duration) ([]readyFD, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ms := timeoutMillis(timeout)
	n, err := unix.EpollWait(p.fd, p.buf[:], ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	out := make([]readyFD, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, readyFD{fd: int(p.buf[i].Fd), events: fromEpollMask(p.buf[i].Events)})
	}
	return out, nil
}

func (p *epollPoller) close() error {
	if p.fd < 0 {
		return nil
	}
	fd := p.fd
	p.fd = -1
	return unix.Close(fd)
}

func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := d.Milliseconds()
	const maxInt32 = int64(1)<<31 - 1
	if ms > maxInt32 {
		ms = maxInt32
	}
	return int(ms)
}

func toEpollMask(ev IOEvent) uint32 {
	var m uint32
	if ev&EventReadable != 0 {
		m |= unix.EPOLLIN
	}
	if ev&EventWritable != 0 {
		m |= unix.EPOLLOUT
	}
	return m
}

func fromEpollMask(m uint32) IOEvent {
	var ev IOEvent
	if m&unix.EPOLLIN != 0 {
		ev |= EventReadable
	}
	if m&unix.EPOLLOUT != 0 {
		ev |= EventWritable
	}
	return ev
}
