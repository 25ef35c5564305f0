// Package command answers status queries over the serial link. The protocol
// is a single line-oriented command:
//
//	read\n  ->  {"temperature":"21.3C", "humidity":"55%"}\n
//
// Anything else is silently ignored. Before the first reading arrives the
// value fields are empty ("C" / "%"), which callers can treat as warming up.
// Querying is idempotent; the same cached reading is reported until the
// sampler publishes a fresh one.
package command

import (
	"context"

	"envmon-go/bus"
	"envmon-go/types"
)

var (
	topicReading = bus.T("env", "reading")
	topicConfig  = bus.T("config", "command")
)

const readToken = "read"

// UARTPort is the serial surface the service needs. The hardware port and
// the host test double both satisfy it.
type UARTPort interface {
	Write(p []byte) (int, error)
	Readable() <-chan struct{}
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

type Service struct {
	conn *bus.Connection
	port UARTPort
	cfg  types.CommandConfig

	temp string
	hum  string
}

func NewService(conn *bus.Connection, port UARTPort) *Service {
	return &Service{
		conn: conn,
		port: port,
		cfg:  types.CommandConfig{Baud: 115200, MaxLine: 64},
	}
}

// Run blocks until ctx is cancelled. One command is handled per loop pass;
// there is no command queue.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)
	readSub := s.conn.Subscribe(topicReading)
	defer s.conn.Unsubscribe(readSub)

	// Retained config, if any, before the reader is sized.
	select {
	case m := <-cfgSub.Channel():
		s.applyConfig(m.Payload)
	default:
	}

	lines := make(chan []byte, 1)
	go readLines(ctx, s.port, s.cfg.MaxLine, lines)

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-cfgSub.Channel():
			s.applyConfig(m.Payload)
		case m := <-readSub.Channel():
			if r, ok := m.Payload.(types.Reading); ok {
				s.temp, s.hum = r.Strings()
			}
		case line := <-lines:
			if string(line) == readToken {
				s.respond()
			}
		}
	}
}

func (s *Service) applyConfig(payload any) {
	cfg, ok := payload.(types.CommandConfig)
	if !ok {
		return
	}
	if cfg.Baud > 0 {
		s.cfg.Baud = cfg.Baud
	}
	if cfg.MaxLine >= 8 {
		s.cfg.MaxLine = cfg.MaxLine
	}
}

func (s *Service) respond() {
	if _, err := s.port.Write(statusLine(s.temp, s.hum)); err != nil {
		println("[command] write failed:", err.Error())
	}
}

// statusLine renders the exact reply byte sequence, including the space
// after the comma and the trailing newline.
func statusLine(temp, hum string) []byte {
	return []byte(`{"temperature":"` + temp + `C", "humidity":"` + hum + `%"}` + "\n")
}
