package sensor

import (
	"context"
	"sync"
	"testing"
	"time"

	"envmon-go/bus"
	"envmon-go/errcode"
	"envmon-go/types"
)

// stubSensor is a scripted Sensor for detection and service-loop tests.
type stubSensor struct {
	mu       sync.Mutex
	name     string
	present  bool
	probed   bool
	readings []types.Reading
}

func (s *stubSensor) Name() string { return s.name }

func (s *stubSensor) Probe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probed = true
	return s.present
}

func (s *stubSensor) Read() (types.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.readings) == 0 {
		return types.Reading{}, errcode.NotReady
	}
	r := s.readings[0]
	s.readings = s.readings[1:]
	return r, nil
}

func (s *stubSensor) Info() types.SensorInfo {
	return types.SensorInfo{Sensor: s.name, Bus: "i2c0"}
}

func TestDetectPriorityOrder(t *testing.T) {
	a := &stubSensor{name: "aht20", present: false}
	b := &stubSensor{name: "shtc3", present: true}
	c := &stubSensor{name: "bme280", present: true}

	got := DetectFrom([]Sensor{a, b, c})
	if got != b {
		t.Fatalf("expected shtc3 to win, got %v", got)
	}
	if !a.probed {
		t.Error("higher-priority candidate was not probed")
	}
	if c.probed {
		t.Error("probe should stop at the first hit")
	}
}

func TestDetectNothingFitted(t *testing.T) {
	a := &stubSensor{name: "aht20"}
	b := &stubSensor{name: "shtc3"}
	if got := DetectFrom([]Sensor{a, b}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestVariantConversions(t *testing.T) {
	// SHTC3 reports milli-°C and hundredths of %RH.
	r := readingFromSHTC3(21_340, 5540)
	if r.DeciC != 213 || r.RHx100 != 5540 {
		t.Errorf("shtc3: got %d/%d, want 213/5540", r.DeciC, r.RHx100)
	}
	r = readingFromSHTC3(-5_010, 12_000)
	if r.DeciC != -50 || r.RHx100 != 10000 {
		t.Errorf("shtc3 clamp: got %d/%d, want -50/10000", r.DeciC, r.RHx100)
	}

	// BME280 reports milli-°C and hundredths of %RH.
	r = readingFromBME280(25_010, 4760)
	if r.DeciC != 250 || r.RHx100 != 4760 {
		t.Errorf("bme280: got %d/%d, want 250/4760", r.DeciC, r.RHx100)
	}
}

func waitReading(t *testing.T, sub *bus.Subscription) types.Reading {
	t.Helper()
	select {
	case m := <-sub.Channel():
		r, ok := m.Payload.(types.Reading)
		if !ok {
			t.Fatalf("unexpected payload %T", m.Payload)
		}
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reading")
		return types.Reading{}
	}
}

func TestServicePublishesInfoAndReadings(t *testing.T) {
	b := bus.NewBus(8)
	ctrl := b.NewConnection("test")

	// Short cadence so the test runs fast.
	ctrl.Publish(ctrl.NewMessage(bus.T("config", "monitor"),
		types.MonitorConfig{SamplePeriodMS: 10, BootHoldMS: 5}, true))

	sen := &stubSensor{
		name:    "aht20",
		present: true,
		readings: []types.Reading{
			{DeciC: 213, RHx100: 5540},
			{DeciC: 214, RHx100: 5530},
		},
	}

	infoSub := ctrl.Subscribe(bus.T("env", "sensor"))
	readSub := ctrl.Subscribe(bus.T("env", "reading"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewService(b.NewConnection("sensor"), sen).Run(ctx)

	select {
	case m := <-infoSub.Channel():
		info := m.Payload.(types.SensorInfo)
		if info.Sensor != "aht20" {
			t.Errorf("info.Sensor = %q", info.Sensor)
		}
	case <-time.After(time.Second):
		t.Fatal("no sensor info published")
	}

	if r := waitReading(t, readSub); r.DeciC != 213 {
		t.Errorf("first reading DeciC = %d, want 213", r.DeciC)
	}
	if r := waitReading(t, readSub); r.DeciC != 214 {
		t.Errorf("second reading DeciC = %d, want 214", r.DeciC)
	}

	// Script exhausted: reads now fail, but the last good reading stays
	// retained for late subscribers.
	time.Sleep(50 * time.Millisecond)
	late := ctrl.Subscribe(bus.T("env", "reading"))
	if r := waitReading(t, late); r.DeciC != 214 {
		t.Errorf("retained reading DeciC = %d, want 214", r.DeciC)
	}
}

func TestServiceWithoutSensor(t *testing.T) {
	b := bus.NewBus(8)
	ctrl := b.NewConnection("test")

	infoSub := ctrl.Subscribe(bus.T("env", "sensor"))
	readSub := ctrl.Subscribe(bus.T("env", "reading"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewService(b.NewConnection("sensor"), nil).Run(ctx)

	select {
	case m := <-infoSub.Channel():
		info := m.Payload.(types.SensorInfo)
		if info.Sensor != "none" {
			t.Errorf("info.Sensor = %q, want none", info.Sensor)
		}
	case <-time.After(time.Second):
		t.Fatal("no sensor info published")
	}

	select {
	case m := <-readSub.Channel():
		t.Fatalf("unexpected reading: %+v", m.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}
