package sensor

import "tinygo.org/x/drivers"

// Variants returns the candidate sensors in detection priority order.
func Variants(bus drivers.I2C, busID string) []Sensor {
	return []Sensor{
		NewAHT20(bus, busID),
		NewSHTC3(bus, busID),
		NewBME280(bus, busID),
	}
}

// Detect probes the bus for a supported sensor and returns the first hit,
// or nil when nothing answers. Probing is once-at-boot; there is no hot swap.
func Detect(bus drivers.I2C, busID string) Sensor {
	return DetectFrom(Variants(bus, busID))
}

// DetectFrom runs the probe sequence over an explicit candidate list.
func DetectFrom(candidates []Sensor) Sensor {
	for _, s := range candidates {
		if s.Probe() {
			println("[sensor] detected:", s.Name())
			return s
		}
	}
	println("[sensor] no supported sensor found")
	return nil
}
