package sensor

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/types"
)

var (
	topicSensor  = bus.T("env", "sensor")
	topicReading = bus.T("env", "reading")
	topicConfig  = bus.T("config", "monitor")
)

// Service samples the detected sensor on a timer and publishes retained
// readings. The last good reading stays retained when a sample fails, so
// consumers keep serving stale data rather than blanks.
type Service struct {
	conn *bus.Connection
	sen  Sensor
	cfg  types.MonitorConfig
}

// NewService wires the sampling loop to the bus. sen may be nil when
// detection found nothing; the loop then only publishes the sensor info.
func NewService(conn *bus.Connection, sen Sensor) *Service {
	return &Service{
		conn: conn,
		sen:  sen,
		cfg:  types.MonitorConfig{SamplePeriodMS: 2000, BootHoldMS: 5000},
	}
}

// Run blocks until ctx is cancelled. The first sample is delayed by the
// boot hold so the boot diagnostics stay on the display for a while.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	// Pick up retained config before arming the timer.
	select {
	case m := <-cfgSub.Channel():
		s.applyConfig(m.Payload)
	default:
	}

	s.publishInfo()

	if s.sen == nil {
		println("[sensor] running without sensor; no readings will be published")
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-cfgSub.Channel():
				s.applyConfig(m.Payload)
			}
		}
	}

	timer := time.NewTimer(time.Duration(s.cfg.BootHoldMS) * time.Millisecond)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-cfgSub.Channel():
			s.applyConfig(m.Payload)
		case <-timer.C:
			s.sample()
			resetTimer(timer, time.Duration(s.cfg.SamplePeriodMS)*time.Millisecond)
		}
	}
}

func (s *Service) applyConfig(payload any) {
	cfg, ok := payload.(types.MonitorConfig)
	if !ok {
		return
	}
	if cfg.SamplePeriodMS > 0 {
		s.cfg.SamplePeriodMS = cfg.SamplePeriodMS
	}
	if cfg.BootHoldMS >= 0 {
		s.cfg.BootHoldMS = cfg.BootHoldMS
	}
}

func (s *Service) publishInfo() {
	info := types.SensorInfo{Sensor: "none"}
	if s.sen != nil {
		info = s.sen.Info()
	}
	s.conn.Publish(s.conn.NewMessage(topicSensor, info, true))
}

func (s *Service) sample() {
	r, err := s.sen.Read()
	if err != nil {
		// Keep the previous retained reading; consumers serve stale data.
		println("[sensor] read failed:", err.Error())
		return
	}
	s.conn.Publish(s.conn.NewMessage(topicReading, r, true))
}
