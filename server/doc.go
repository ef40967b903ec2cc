// Package server provides EagleServer, an illustrative TCP server that
// drives connection accept and I/O entirely through executor's Reactor
// rather than Go's runtime network poller: the listening socket and every
// accepted connection are registered with an epoll-backed Reactor, and
// accept/read/write happen via raw syscalls inside Futures that return
// pending on EAGAIN.
package server
