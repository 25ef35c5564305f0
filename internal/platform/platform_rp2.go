//go:build rp2040 || rp2350

package platform

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Board names the embedded config section to load.
func Board() string { return "pico" }

// I2C configures and returns the sensor/display bus at 400 kHz on the
// default pins.
func I2C() drivers.I2C {
	b := machine.I2C0
	_ = b.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	return b
}

// UART configures uart0 for the command link on the default pins.
func UART(baud uint32) *uartx.UART {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return hw
}

// LCDAddress is the usual PCF8574 backpack address.
const LCDAddress = 0x27

// LCDDisplay adapts the HD44780 driver to the display service surface.
type LCDDisplay struct {
	dev hd44780i2c.Device
}

// LCD configures the character LCD on the shared I2C bus. I2C() must have
// run first.
func LCD(cols, rows uint8) *LCDDisplay {
	dev := hd44780i2c.New(machine.I2C0, LCDAddress)
	dev.Configure(hd44780i2c.Config{
		Width:  cols,
		Height: rows,
	})
	return &LCDDisplay{dev: dev}
}

func (l *LCDDisplay) ClearDisplay() { l.dev.ClearDisplay() }

func (l *LCDDisplay) SetCursor(col, row uint8) { l.dev.SetCursor(col, row) }

func (l *LCDDisplay) Print(p []byte) { l.dev.Print(p) }
