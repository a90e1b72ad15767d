//go:build unix

package transports

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Connect implements Transport.
//
// The socket is switched to non-blocking mode and the handshake is awaited
// with poll(2) until timeout. ctx is not consulted: a handshake that has
// started always runs to completion or to its own timeout.
func (d *Direct) Connect(_ context.Context, addr netip.AddrPort, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	domain, sa := sockaddr(addr)

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return fmt.Errorf("%w: socket: %w", ErrEnvironment, err)
	}
	defer closeFD(fd)

	unix.CloseOnExec(fd)

	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("%w: set non-blocking: %w", ErrEnvironment, err)
	}

	err = unix.Connect(fd, sa)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EINPROGRESS), errors.Is(err, unix.EINTR):
		return waitConnected(fd, deadline)
	default:
		return fmt.Errorf("connect %s: %w", addr, err)
	}
}

// waitConnected polls fd for writability until deadline, then reads
// the pending socket error to tell a completed handshake from a failed one.
func waitConnected(fd int, deadline time.Time) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrTimeout
		}

		n, err := unix.Poll(fds, pollTimeout(remaining))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: poll: %w", ErrEnvironment, err)
		}
		if n > 0 {
			break
		}
	}

	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return fmt.Errorf("read socket error: %w", err)
	}

	if soErr != 0 {
		return fmt.Errorf("connect: %w", unix.Errno(soErr))
	}

	return nil
}

// pollTimeout rounds up to whole milliseconds so poll never spins on a zero timeout.
func pollTimeout(d time.Duration) int {
	return int((d + time.Millisecond - 1) / time.Millisecond)
}

func sockaddr(addr netip.AddrPort) (int, unix.Sockaddr) {
	ip := addr.Addr().Unmap()
	port := int(addr.Port())

	if ip.Is4() {
		return unix.AF_INET, &unix.SockaddrInet4{Port: port, Addr: ip.As4()}
	}

	return unix.AF_INET6, &unix.SockaddrInet6{Port: port, Addr: ip.As16(), ZoneId: zoneID(ip.Zone())}
}

func zoneID(zone string) uint32 {
	if zone == "" {
		return 0
	}

	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}

	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n)
	}

	return 0
}

func closeFD(fd int) {
	if err := unix.Close(fd); err != nil {
		log.Errorf("close socket %d: %v", fd, err)
	}
}
