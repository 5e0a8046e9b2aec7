package types

import (
	"image/color"
	"io"
	"net/netip"
)

// Hardware-facing interfaces. The platform packages provide implementations;
// everything above them is host-testable.

// Filesystem is the low-level flash-backed store. WriteFile reports the byte
// count so callers can detect short writes.
type Filesystem interface {
	Mount() error
	Unmount() error
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) (int, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	List(path string) ([]FileInfo, error)
}

// PixelStrip drives the single on-board addressable LED. The color carries
// brightness pre-applied; WriteColor paints and latches.
type PixelStrip interface {
	WriteColor(c color.RGBA) error
}

// Display is a small monochrome pixel display with 8 text rows. Glyph
// rendering and font-fit selection live behind this interface.
type Display interface {
	Configure() error
	Clear()
	PrintLine(row int, text string)
	Flush() error
	// PaintSplash renders a centered title/subtitle with the largest font
	// that fits the display width, in a single clear+paint.
	PaintSplash(title, subtitle string) error
}

// Radio owns the Wi-Fi hardware exclusively.
type Radio interface {
	// EnableAP brings the radio up as an open access point advertising ssid.
	EnableAP(ssid string) error
	DisableAP() error
	// BeginJoin starts STA association; progress is observed via Status.
	BeginJoin(ssid, password string) error
	Status() LinkStatus
	Disconnect() error
	// Scan blocks for up to several seconds and returns visible SSIDs.
	Scan() ([]string, error)
	STAAddr() netip.Addr
	APAddr() netip.Addr
	HardwareAddr() [6]byte
}

// PacketConn is a non-blocking UDP socket used by the captive DNS responder.
type PacketConn interface {
	// TryReadFrom reads one pending datagram. n == 0 means none pending.
	TryReadFrom(buf []byte) (n int, addr netip.AddrPort, err error)
	WriteTo(buf []byte, addr netip.AddrPort) (int, error)
	Close() error
}

// Listener accepts TCP connections without blocking the cooperative loop.
type Listener interface {
	// TryAccept returns (nil, nil) when no connection is pending.
	TryAccept() (io.ReadWriteCloser, error)
	Close() error
}

// Serial is the console byte stream.
type Serial interface {
	Buffered() int
	ReadByte() (byte, error)
	io.Writer
}

// Button is the factory-reset input, debounced by the lifecycle sampler.
type Button interface {
	Pressed() bool
}

// SystemControl exposes the platform clock and restart primitive.
type SystemControl interface {
	// Millis is the raw 32-bit monotonic millisecond counter; it wraps.
	Millis() uint32
	SleepMs(ms uint32)
	Restart()
	ResetReason() ResetReason
}

// OTACallbacks receive over-the-air update progress.
type OTACallbacks struct {
	OnStart    func()
	OnEnd      func()
	OnProgress func(current, total uint32)
	OnError    func(err error)
}

// OTA is the over-the-air update collaborator. The wire protocol is not part
// of the core; the starter only sequences registration and per-tick handling.
type OTA interface {
	SetHostname(name string)
	Begin(cb OTACallbacks) error
	// Handle drives one pass of the OTA event loop.
	Handle()
	Stop()
}

// MDNS announces the device on the local network while the portal runs.
type MDNS interface {
	Announce(instance string, port int, txt []string) error
	Stop()
}

// Hardware bundles the platform implementations handed to the App.
type Hardware struct {
	FS      Filesystem
	Strip   PixelStrip
	Display Display
	Radio   Radio
	Button  Button
	Serial  Serial
	System  SystemControl
	OTA     OTA
	MDNS    MDNS

	LogWriter io.Writer

	ListenTCP func(port uint16) (Listener, error)
	ListenUDP func(port uint16) (PacketConn, error)
}
