package main

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/internal/platform"
	"envmon-go/services/command"
	"envmon-go/services/config"
	"envmon-go/services/display"
	"envmon-go/services/sensor"
)

const version = "v2.1"

func main() {
	// Give USB CDC a moment to enumerate before the first println.
	time.Sleep(1500 * time.Millisecond)
	println("[main] envmon", version, "boot on", platform.Board())

	ctx := context.Background()
	b := bus.NewBus(8)

	config.Start(ctx, b.NewConnection("config"), platform.Board())

	i2c := platform.I2C()
	sen := sensor.Detect(i2c, platform.BusID)

	disp := platform.LCD(16, 2)
	go display.NewService(b.NewConnection("display"), disp, version).Run(ctx)

	port := platform.UART(platform.DefaultBaud)
	go command.NewService(b.NewConnection("command"), port).Run(ctx)

	// Sampling loop runs on the main goroutine.
	sensor.NewService(b.NewConnection("sensor"), sen).Run(ctx)
}
