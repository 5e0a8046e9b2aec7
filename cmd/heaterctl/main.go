package main

import (
	"heaterctl-go/lifecycle"
	"heaterctl-go/platform"
)

const tickMs = 10

func main() {
	hw := platform.New()
	app := lifecycle.NewApp(hw)
	app.Boot()
	for {
		hw.System.SleepMs(tickMs)
		app.Tick()
	}
}
