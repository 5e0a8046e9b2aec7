// Package led drives the on-board addressable status LED, including the
// cooperative blink state machine.
package led

import (
	"image/color"

	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/conv"
	"heaterctl-go/x/mathx"
	"heaterctl-go/x/timex"
)

// Millis supplies the raw 32-bit tick counter for blink timing.
type Millis interface {
	Millis() uint32
}

// LED owns the pixel strip. Intensity scaling happens here because the strip
// itself has no brightness control.
type LED struct {
	strip types.PixelStrip
	clk   Millis
	log   *logx.Logger

	cur       color.RGBA
	intensity uint8 // 0..100

	blinking   bool
	phaseOn    bool
	onMs       uint32
	offMs      uint32
	lastToggle uint32
}

func New(strip types.PixelStrip, clk Millis, log *logx.Logger) *LED {
	return &LED{strip: strip, clk: clk, log: log, intensity: 100}
}

// RGB sets a solid color and cancels any blink.
func (l *LED) RGB(r, g, b uint8) {
	l.blinking = false
	l.cur = color.RGBA{R: r, G: g, B: b, A: 255}
	l.paint(l.cur)
}

// SetHexColor accepts "#RRGGBB". Malformed input is logged and ignored.
func (l *LED) SetHexColor(hex string) {
	r, g, b, ok := conv.ParseHexColor(hex)
	if !ok {
		l.log.Warnf("led: bad color %q", hex)
		return
	}
	l.RGB(r, g, b)
}

// Intensity sets brightness as a percentage and repaints the current state.
func (l *LED) Intensity(pct uint8) {
	l.intensity = mathx.Clamp(pct, 0, 100)
	if !l.blinking || l.phaseOn {
		l.paint(l.cur)
	}
}

func (l *LED) Off() {
	l.blinking = false
	l.cur = color.RGBA{A: 255}
	l.paint(l.cur)
}

// StartBlink alternates the given color with off at the given cadence.
func (l *LED) StartBlink(hex string, intensity uint8, onMs, offMs uint32) {
	r, g, b, ok := conv.ParseHexColor(hex)
	if !ok {
		l.log.Warnf("led: bad blink color %q", hex)
		return
	}
	l.Intensity(intensity)
	l.cur = color.RGBA{R: r, G: g, B: b, A: 255}
	l.onMs = onMs
	l.offMs = offMs
	l.blinking = true
	l.phaseOn = true
	l.lastToggle = l.clk.Millis()
	l.paint(l.cur)
}

// StopBlink freezes the LED in its current color, lit.
func (l *LED) StopBlink() {
	if !l.blinking {
		return
	}
	l.blinking = false
	l.paint(l.cur)
}

// Tick advances the blink state machine.
func (l *LED) Tick() {
	if !l.blinking {
		return
	}
	now := l.clk.Millis()
	elapsed := timex.ElapsedMs32(now, l.lastToggle)
	if l.phaseOn {
		if elapsed >= l.onMs {
			l.phaseOn = false
			l.lastToggle = now
			l.paint(color.RGBA{A: 255})
		}
	} else if elapsed >= l.offMs {
		l.phaseOn = true
		l.lastToggle = now
		l.paint(l.cur)
	}
}

func (l *LED) paint(c color.RGBA) {
	scaled := color.RGBA{
		R: scale(c.R, l.intensity),
		G: scale(c.G, l.intensity),
		B: scale(c.B, l.intensity),
		A: 255,
	}
	if err := l.strip.WriteColor(scaled); err != nil {
		l.log.Warnf("led: write failed: %v", err)
	}
}

func scale(v, pct uint8) uint8 {
	return uint8(mathx.MapU16(uint16(pct), 0, 100, 0, uint16(v)))
}
