package transport

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-hclog"
)

// CommandSender writes command strings as single UDP datagrams.
type CommandSender struct {
	conn   net.Conn
	logger hclog.Logger
}

// NewCommandSender dials the simulation host's import port.
func NewCommandSender(host string, port int, logger hclog.Logger) (*CommandSender, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	conn, err := net.Dial("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("dial command port: %w", err)
	}
	return &CommandSender{conn: conn, logger: logger.Named("command")}, nil
}

func (s *CommandSender) Send(cmd string) error {
	if _, err := s.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("send %q: %w", cmd, err)
	}
	s.logger.Debug("command sent", "bytes", len(cmd))
	return nil
}

func (s *CommandSender) Close() error { return s.conn.Close() }
