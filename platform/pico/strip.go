//go:build rp2040 || rp2350

package pico

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

const stripPin = machine.GP16

// WS2812Strip drives the single on-board status pixel.
type WS2812Strip struct {
	dev ws2812.Device
}

func NewStrip() *WS2812Strip {
	pin := stripPin
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812Strip{dev: ws2812.NewWS2812(pin)}
}

func (s *WS2812Strip) WriteColor(c color.RGBA) error {
	return s.dev.WriteColors([]color.RGBA{c})
}
