//go:build rp2040 || rp2350

package pico

import "machine"

const buttonPin = machine.GP22

// ResetButton is an active-low button against the internal pull-up.
type ResetButton struct {
	pin machine.Pin
}

func NewButton() *ResetButton {
	pin := buttonPin
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &ResetButton{pin: pin}
}

func (b *ResetButton) Pressed() bool {
	return !b.pin.Get()
}
