// Package config publishes the per-board configuration as retained bus
// messages at boot. Services pick their section up whenever they subscribe,
// so start order does not matter. Values are compiled in; there is no
// filesystem on the target.
package config

import (
	"context"

	"envmon-go/bus"
	"envmon-go/types"
)

var (
	topicMonitor = bus.T("config", "monitor")
	topicDisplay = bus.T("config", "display")
	topicCommand = bus.T("config", "command")
)

// BoardConfig groups every service section for one board.
type BoardConfig struct {
	Monitor types.MonitorConfig
	Display types.DisplayConfig
	Command types.CommandConfig
}

var embedded = map[string]BoardConfig{
	"pico": {
		Monitor: types.MonitorConfig{SamplePeriodMS: 2000, BootHoldMS: 5000},
		Display: types.DisplayConfig{Cols: 16, Rows: 2},
		Command: types.CommandConfig{Baud: 115200, MaxLine: 64},
	},
	"host": {
		Monitor: types.MonitorConfig{SamplePeriodMS: 500, BootHoldMS: 100},
		Display: types.DisplayConfig{Cols: 16, Rows: 2},
		Command: types.CommandConfig{Baud: 115200, MaxLine: 64},
	},
}

// Start publishes the sections for the named board. Unknown boards fall back
// to "pico" so the firmware still comes up with sane defaults.
func Start(ctx context.Context, conn *bus.Connection, board string) {
	cfg, ok := embedded[board]
	if !ok {
		println("[config] unknown board", board, "- using pico defaults")
		cfg = embedded["pico"]
	}
	conn.Publish(conn.NewMessage(topicMonitor, cfg.Monitor, true))
	conn.Publish(conn.NewMessage(topicDisplay, cfg.Display, true))
	conn.Publish(conn.NewMessage(topicCommand, cfg.Command, true))
	println("[config] published board config:", board)
}
