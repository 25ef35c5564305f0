// Package sensor detects the fitted environment sensor and samples it on a
// fixed cadence, publishing readings on the bus for the display and command
// services.
//
// Supported parts, in detection priority order:
//
//	AHT20  (0x38) - two-phase trigger/collect driver with configurable poll rate
//	SHTC3  (0x70) - wake / measure / sleep cycle
//	BME280 (0x76) - combined pressure part, used for temperature + humidity only
package sensor

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/drivers/shtc3"

	"envmon-go/drivers/aht20"
	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/mathx"
	"envmon-go/x/timex"
)

// Sensor is one candidate part on the I2C bus. Probe must be cheap enough to
// run once at boot for every variant; Read is called on the sample cadence.
type Sensor interface {
	Name() string
	Probe() bool
	Read() (types.Reading, error)
	Info() types.SensorInfo
}

// reading assembles a bus reading from raw fixed-point values, clamping to
// the wire types (deci-°C in int16, hundredths of %RH in 0..10000).
func reading(decic, rhx100 int32) types.Reading {
	return types.Reading{
		DeciC:  int16(mathx.Clamp(decic, -32768, 32767)),
		RHx100: uint16(mathx.Clamp(rhx100, 0, 10000)),
		TSms:   timex.NowMs(),
	}
}

// ---- AHT20 ----

type AHT20 struct {
	dev   aht20.Device
	busID string
}

func NewAHT20(bus drivers.I2C, busID string) *AHT20 {
	return &AHT20{dev: aht20.New(bus), busID: busID}
}

func (s *AHT20) Name() string { return "AHT20" }

func (s *AHT20) Probe() bool {
	if _, err := s.dev.Status(); err != nil {
		return false
	}
	s.dev.Configure()
	return true
}

func (s *AHT20) Read() (types.Reading, error) {
	var smp aht20.Sample
	if err := s.dev.Read(&smp); err != nil {
		return types.Reading{}, err
	}
	// Driver reports deci-%RH; bus carries hundredths.
	return reading(smp.DeciCelsius(), smp.DeciRelHumidity()*10), nil
}

func (s *AHT20) Info() types.SensorInfo {
	return types.SensorInfo{
		Sensor:         "aht20",
		Addr:           s.dev.Address,
		Bus:            s.busID,
		PollIntervalMS: int(s.dev.PollInterval().Milliseconds()),
	}
}

// ---- SHTC3 ----

type SHTC3 struct {
	dev   shtc3.Device
	busID string
}

func NewSHTC3(bus drivers.I2C, busID string) *SHTC3 {
	return &SHTC3{dev: shtc3.New(bus), busID: busID}
}

func (s *SHTC3) Name() string { return "SHTC3" }

func (s *SHTC3) Probe() bool {
	if err := s.dev.WakeUp(); err != nil {
		return false
	}
	_, _, err := s.dev.ReadTemperatureHumidity()
	_ = s.dev.Sleep()
	return err == nil
}

func (s *SHTC3) Read() (types.Reading, error) {
	if err := s.dev.WakeUp(); err != nil {
		return types.Reading{}, errcode.SensorNotFound
	}
	tmc, rhx100, err := s.dev.ReadTemperatureHumidity()
	_ = s.dev.Sleep()
	if err != nil {
		return types.Reading{}, err
	}
	// tmc is milli-°C, rhx100 already hundredths of %RH.
	return readingFromSHTC3(tmc, int32(rhx100)), nil
}

func readingFromSHTC3(tmc, rhx100 int32) types.Reading {
	return reading(tmc/100, rhx100)
}

func (s *SHTC3) Info() types.SensorInfo {
	return types.SensorInfo{Sensor: "shtc3", Addr: 0x70, Bus: s.busID}
}

// ---- BME280 ----

type BME280 struct {
	dev   bme280.Device
	busID string
}

func NewBME280(bus drivers.I2C, busID string) *BME280 {
	return &BME280{dev: bme280.New(bus), busID: busID}
}

func (s *BME280) Name() string { return "BME280" }

func (s *BME280) Probe() bool {
	s.dev.Configure()
	return s.dev.Connected()
}

func (s *BME280) Read() (types.Reading, error) {
	tm, err := s.dev.ReadTemperature()
	if err != nil {
		return types.Reading{}, err
	}
	hc, err := s.dev.ReadHumidity()
	if err != nil {
		return types.Reading{}, err
	}
	return readingFromBME280(tm, hc), nil
}

// tm is milli-°C, hc is hundredths of %RH.
func readingFromBME280(tm, hc int32) types.Reading {
	return reading(tm/100, hc)
}

func (s *BME280) Info() types.SensorInfo {
	return types.SensorInfo{Sensor: "bme280", Addr: s.dev.Address, Bus: s.busID}
}
