// Package transports implements the ways pingtcp opens a TCP handshake:
// straight through an OS socket, or interposed by a SOCKS5 proxy.
// Every transport resolves, reverse-resolves and connects with a bounded wait,
// and always releases its socket before returning.
package transports

import (
	"errors"
	"io"

	"github.com/digineo/go-logwrap"
)

var (
	// ErrEnvironment marks failures of the local environment, such as being
	// unable to create a socket. They are not handshake failures and should
	// end the run.
	ErrEnvironment = errors.New("environment")

	// ErrTimeout is returned when the handshake did not finish in time.
	ErrTimeout = errors.New("handshake timed out")

	// ErrReverseLookupDisabled is returned by transports that refuse to
	// issue PTR queries outside the tunnel.
	ErrReverseLookupDisabled = errors.New("reverse lookup disabled")
)

var (
	log = &logwrap.Instance{}

	// SetLogger allows updating the Logger. For details, see
	// "github.com/digineo/go-logwrap".Instance.SetLogger.
	SetLogger = log.SetLogger
)

func closeConn(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Errorf("close connection: %v", err)
	}
}
