//go:build !unix

package transports

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"
)

// Connect implements Transport using the runtime's network poller.
// ctx cannot abort a handshake that has started.
func (d *Direct) Connect(ctx context.Context, addr netip.AddrPort, timeout time.Duration) error {
	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(context.WithoutCancel(ctx), "tcp", addr.String())
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	closeConn(conn)
	return nil
}
