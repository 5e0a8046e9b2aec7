//go:build !rp2040 && !rp2350

package host

import (
	"os"

	"heaterctl-go/types"
)

// New assembles the host hardware set: real sockets and mDNS, a directory
// for flash, and simulated peripherals. dataDir may be empty, which keeps
// everything in memory.
func New(dataDir string) types.Hardware {
	var fs types.Filesystem
	if dataDir != "" {
		fs = NewDirFS(dataDir)
	} else {
		fs = NewMemFS()
	}
	return types.Hardware{
		FS:        fs,
		Strip:     &FakeStrip{},
		Display:   NewFakeDisplay(),
		Radio:     NewSimRadio(),
		Button:    NewButton("gpiochip0", 22),
		Serial:    NewStdioSerial(),
		System:    NewSysClock(),
		OTA:       &FakeOTA{},
		MDNS:      NewMDNS(),
		LogWriter: os.Stderr,
		ListenTCP: ListenTCP,
		ListenUDP: ListenUDP,
	}
}
