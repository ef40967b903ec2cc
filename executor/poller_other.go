//go:build !linux

package executor

import "time"

// genericPoller is the platformPoller used on platforms without an epoll
// backend. It is wired in so the package still builds and the Reactor's
// error-handling paths are exercised, but every operation except close
// fails with ErrUnsupportedPlatform.
type genericPoller struct{}

func newPlatformPoller() platformPoller { return &genericPoller{} }

func (p *genericPoller) init() error                            { return ErrUnsupportedPlatform }
func (p *genericPoller) add(fd int, events IOEvent) error       { return ErrUnsupportedPlatform }
func (p *genericPoller) modify(fd int, events IOEvent) error    { return ErrUnsupportedPlatform }
func (p *genericPoller) remove(fd int) error                    { return ErrUnsupportedPlatform }
func (p *genericPoller) wait(time.Duration) ([]readyFD, error)  { return nil, ErrUnsupportedPlatform }
func (p *genericPoller) close() error                           { return nil }
