package types

// ------------------------
// Temperature & humidity
// ------------------------

// Reading is one temperature/humidity measurement in fixed point. The
// drivers round at conversion time; no further rounding happens downstream
// except the integer-percent display form of humidity.
type Reading struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100 uint16
	// Producer timestamp (ms).
	TSms int64
}

// SensorInfo describes the sensor variant selected at boot.
type SensorInfo struct {
	Sensor string // "aht20", "shtc3", "bme280", "none"
	Addr   uint16 // I2C address; 0 when Sensor == "none"
	Bus    string // "i2c0", ...
	// PollIntervalMS is the driver-level sample rate for variants that
	// support configuring one (aht20); 0 otherwise.
	PollIntervalMS int
}

// None reports whether no sensor was detected at boot.
func (i SensorInfo) None() bool { return i.Sensor == "" || i.Sensor == "none" }
