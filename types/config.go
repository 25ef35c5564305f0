package types

// ------------------------
// Service configuration
// ------------------------

// MonitorConfig controls the measurement cadence.
type MonitorConfig struct {
	// SamplePeriodMS is the interval between periodic sensor reads.
	SamplePeriodMS int
	// BootHoldMS delays the first sample so the boot diagnostics stay
	// visible on the display.
	BootHoldMS int
}

// DisplayConfig describes the character display geometry.
type DisplayConfig struct {
	Cols uint8
	Rows uint8
}

// CommandConfig controls the serial command responder.
type CommandConfig struct {
	Baud uint32
	// MaxLine clamps accumulated command lines; longer lines simply never
	// match a command token.
	MaxLine int
}
