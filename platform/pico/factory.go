//go:build rp2040 || rp2350

package pico

import (
	"machine"

	"heaterctl-go/types"
)

// NopOTA stands in until an update transport lands for this board.
type NopOTA struct{}

func (NopOTA) SetHostname(string)             {}
func (NopOTA) Begin(types.OTACallbacks) error { return nil }
func (NopOTA) Handle()                        {}
func (NopOTA) Stop()                          {}

// NopMDNS: no multicast DNS responder on the embedded stack.
type NopMDNS struct{}

func (NopMDNS) Announce(string, int, []string) error { return nil }
func (NopMDNS) Stop()                                {}

// New assembles the Pico W hardware set. A radio init failure is fatal;
// nothing on this board works without it.
func New() types.Hardware {
	radio, err := NewRadio()
	if err != nil {
		for {
			println("radio init failed:", err.Error())
			machine.CPUReset()
		}
	}
	return types.Hardware{
		FS:        NewFlashFS(),
		Strip:     NewStrip(),
		Display:   NewDisplay(),
		Radio:     radio,
		Button:    NewButton(),
		Serial:    NewConsoleUART(),
		System:    NewSysClock(),
		OTA:       NopOTA{},
		MDNS:      NopMDNS{},
		LogWriter: machine.Serial,
		ListenTCP: radio.ListenTCP,
		ListenUDP: radio.ListenUDP,
	}
}
