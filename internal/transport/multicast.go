package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/net/ipv4"
)

const receiveBufLen = 2048

// MulticastConfig selects the export group to join.
type MulticastConfig struct {
	Group     string
	Port      int
	Interface string
	Timeout   time.Duration
}

// Multicast receives the export stream from its multicast group.
type Multicast struct {
	conn    net.PacketConn
	pconn   *ipv4.PacketConn
	group   *net.UDPAddr
	iface   *net.Interface
	timeout time.Duration
	buf     []byte
	logger  hclog.Logger
}

// NewMulticast binds the group port on all interfaces and joins the group.
func NewMulticast(cfg MulticastConfig, logger hclog.Logger) (*Multicast, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ip := net.ParseIP(cfg.Group)
	if ip == nil || !ip.IsMulticast() {
		return nil, fmt.Errorf("invalid multicast group %q", cfg.Group)
	}
	var iface *net.Interface
	if cfg.Interface != "" {
		var err error
		if iface, err = net.InterfaceByName(cfg.Interface); err != nil {
			return nil, fmt.Errorf("multicast interface: %w", err)
		}
	}
	conn, err := net.ListenPacket("udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	m := &Multicast{
		conn:    conn,
		pconn:   ipv4.NewPacketConn(conn),
		group:   &net.UDPAddr{IP: ip},
		iface:   iface,
		timeout: cfg.Timeout,
		buf:     make([]byte, receiveBufLen),
		logger:  logger.Named("multicast"),
	}
	if err := m.pconn.JoinGroup(iface, m.group); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join %s: %w", cfg.Group, err)
	}
	m.logger.Info("joined export group", "group", cfg.Group, "port", cfg.Port)
	return m, nil
}

// Receive returns the next datagram. The returned slice is only valid until
// the following call.
func (m *Multicast) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Time{}
	if m.timeout > 0 {
		deadline = time.Now().Add(m.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := m.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	n, _, err := m.conn.ReadFrom(m.buf)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, m.timeout)
		}
		return nil, err
	}
	return m.buf[:n], nil
}

// LocalAddr returns the bound address.
func (m *Multicast) LocalAddr() net.Addr { return m.conn.LocalAddr() }

func (m *Multicast) Close() error {
	if err := m.pconn.LeaveGroup(m.iface, m.group); err != nil {
		m.logger.Debug("leave group failed", "error", err)
	}
	return m.conn.Close()
}
