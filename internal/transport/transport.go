// Package transport moves export datagrams in and command strings out.
package transport

import (
	"context"
	"errors"
	"net"
)

// ErrTimeout is returned by Receive when no datagram arrived in time.
var ErrTimeout = errors.New("receive timed out")

// Source yields export datagrams. Receive blocks for at most the source's
// timeout and returns ErrTimeout when nothing arrived.
type Source interface {
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Sender delivers outbound command strings to the simulation host.
type Sender interface {
	Send(cmd string) error
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
