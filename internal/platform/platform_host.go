//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"errors"
	"sync"

	"tinygo.org/x/drivers"
)

// Board names the embedded config section to load.
func Board() string { return "host" }

// ErrNoDevice is what the host I2C bus answers when no script is installed.
var ErrNoDevice = errors.New("platform: no device at address")

// HostI2C is a scriptable I2C double. Install TxFunc to emulate a device;
// without one every transaction fails, so sensor detection finds nothing.
type HostI2C struct {
	mu       sync.Mutex
	TxFunc   func(addr uint16, w, r []byte) error
	LastAddr uint16
	TxCount  int
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	h.LastAddr = addr
	h.TxCount++
	f := h.TxFunc
	h.mu.Unlock()
	if f == nil {
		return ErrNoDevice
	}
	return f(addr, w, r)
}

// I2C returns a fresh host bus double.
func I2C() drivers.I2C { return &HostI2C{} }

// HostUART is an in-memory serial port with the same edge-signalled RX
// surface as the hardware port.
type HostUART struct {
	mu sync.Mutex
	rx []byte
	rd chan struct{}
	tx []byte
}

func NewHostUART() *HostUART { return &HostUART{rd: make(chan struct{}, 1)} }

// UART ignores baud on the host.
func UART(baud uint32) *HostUART { return NewHostUART() }

// FeedRX appends bytes to the receive buffer and asserts the readable edge.
func (u *HostUART) FeedRX(p []byte) {
	u.mu.Lock()
	u.rx = append(u.rx, p...)
	u.mu.Unlock()
	u.signal()
}

func (u *HostUART) signal() {
	select {
	case u.rd <- struct{}{}:
	default:
	}
}

func (u *HostUART) Readable() <-chan struct{} { return u.rd }

func (u *HostUART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		u.mu.Lock()
		if len(u.rx) > 0 {
			n := copy(p, u.rx)
			u.rx = u.rx[n:]
			remaining := len(u.rx) > 0
			u.mu.Unlock()
			if remaining {
				u.signal()
			}
			return n, nil
		}
		u.mu.Unlock()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-u.rd:
		}
	}
}

func (u *HostUART) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tx = append(u.tx, p...)
	return len(p), nil
}

// TXBytes returns a copy of everything written so far.
func (u *HostUART) TXBytes() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.tx...)
}

// HostDisplay records rendered text per row.
type HostDisplay struct {
	mu   sync.Mutex
	rows map[uint8]string
	col  uint8
	row  uint8
}

// LCD returns a recording display double; cols/rows are advisory here, the
// display service does its own truncation.
func LCD(cols, rows uint8) *HostDisplay {
	return &HostDisplay{rows: make(map[uint8]string)}
}

func (d *HostDisplay) ClearDisplay() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = make(map[uint8]string)
	d.col, d.row = 0, 0
}

func (d *HostDisplay) SetCursor(col, row uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.col, d.row = col, row
}

func (d *HostDisplay) Print(p []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[d.row] += string(p)
}

// Line returns what is currently shown on a row.
func (d *HostDisplay) Line(row uint8) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows[row]
}
