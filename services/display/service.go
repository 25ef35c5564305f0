// Package display renders firmware state on a small character LCD. At boot
// it shows a diagnostic screen (firmware version plus the detected sensor);
// once the first reading arrives it switches to the live reading screen and
// stays there.
package display

import (
	"context"

	"envmon-go/bus"
	"envmon-go/types"
	"envmon-go/x/strconvx"
)

var (
	topicSensor  = bus.T("env", "sensor")
	topicReading = bus.T("env", "reading")
	topicConfig  = bus.T("config", "display")
)

// Display is the minimal surface the service needs from a character LCD.
type Display interface {
	ClearDisplay()
	SetCursor(col, row uint8)
	Print(p []byte)
}

type Service struct {
	conn    *bus.Connection
	disp    Display
	version string
	cfg     types.DisplayConfig

	info        types.SensorInfo
	haveInfo    bool
	haveReading bool
}

func NewService(conn *bus.Connection, disp Display, version string) *Service {
	return &Service{
		conn:    conn,
		disp:    disp,
		version: version,
		cfg:     types.DisplayConfig{Cols: 16, Rows: 2},
	}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)
	infoSub := s.conn.Subscribe(topicSensor)
	defer s.conn.Unsubscribe(infoSub)
	readSub := s.conn.Subscribe(topicReading)
	defer s.conn.Unsubscribe(readSub)

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-cfgSub.Channel():
			if cfg, ok := m.Payload.(types.DisplayConfig); ok {
				if cfg.Cols > 0 && cfg.Rows > 0 {
					s.cfg = cfg
				}
			}
		case m := <-infoSub.Channel():
			info, ok := m.Payload.(types.SensorInfo)
			if !ok {
				continue
			}
			s.info = info
			s.haveInfo = true
			if !s.haveReading {
				s.renderBoot()
			}
		case m := <-readSub.Channel():
			r, ok := m.Payload.(types.Reading)
			if !ok {
				continue
			}
			s.haveReading = true
			s.renderReading(r)
		}
	}
}

// renderBoot shows "envmon <version>" and the detection result. For sensors
// with a configurable poll rate the rate is appended.
func (s *Service) renderBoot() {
	line := "NO SENSOR"
	if !s.info.None() {
		line = upperASCII(s.info.Sensor) + " FOUND"
		if s.info.PollIntervalMS > 0 {
			line += " " + strconvx.Itoa(s.info.PollIntervalMS) + "ms"
		}
	}
	s.disp.ClearDisplay()
	s.writeLine(0, "envmon "+s.version)
	s.writeLine(1, line)
}

func (s *Service) renderReading(r types.Reading) {
	temp, hum := r.Strings()
	s.disp.ClearDisplay()
	s.writeLine(0, "T: "+temp+"C")
	s.writeLine(1, "H: "+hum+"%")
}

func (s *Service) writeLine(row uint8, text string) {
	if row >= s.cfg.Rows {
		return
	}
	if len(text) > int(s.cfg.Cols) {
		text = text[:s.cfg.Cols]
	}
	s.disp.SetCursor(0, row)
	s.disp.Print([]byte(text))
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
