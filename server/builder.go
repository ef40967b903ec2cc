package server

import (
	"runtime"

	"github.com/ichigo-dev/eagle/executor"
)

// EagleServerBuilder assembles an EagleServer. The zero value is usable;
// its worker count is then 0, which the built server raises to 1 (as it
// does any count below 1). NewEagleServerBuilder starts from
// runtime.GOMAXPROCS(0) instead.
type EagleServerBuilder struct {
	address    string
	numWorkers int
	logger     executor.Logger
}

// NewEagleServerBuilder returns a builder with NumWorkers defaulted to
// runtime.GOMAXPROCS(0).
func NewEagleServerBuilder() *EagleServerBuilder {
	return &EagleServerBuilder{numWorkers: runtime.GOMAXPROCS(0)}
}

// Address sets the listen address, e.g. "127.0.0.1:5500".
func (b *EagleServerBuilder) Address(address string) *EagleServerBuilder {
	b.address = address
	return b
}

// NumWorkers sets the executor worker pool size the server runs on.
func (b *EagleServerBuilder) NumWorkers(n int) *EagleServerBuilder {
	b.numWorkers = n
	return b
}

// Logger overrides the executor.Logger used by the server's Executor and
// Reactor. The default (nil here) falls back to executor's own default.
func (b *EagleServerBuilder) Logger(l executor.Logger) *EagleServerBuilder {
	b.logger = l
	return b
}

// Build returns the configured EagleServer.
func (b *EagleServerBuilder) Build() *EagleServer {
	return newEagleServer(b.address, b.numWorkers, b.logger)
}
