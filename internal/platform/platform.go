// Package platform hides the build-target split. On rp2040 it hands out the
// real I2C bus, UART and LCD; on the host it hands out in-memory doubles so
// the firmware (and its tests) run unmodified.
package platform

// DefaultBaud is the serial command link rate.
const DefaultBaud uint32 = 115200

// BusID names the sensor/display I2C bus in published sensor info.
const BusID = "i2c0"
