// Package screen manages the status display: boot splash, then two-line
// status updates. All paints are queued through the splash window so boot
// messages are not lost on the way up.
package screen

import (
	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/timex"
)

const rows = 8

// Millis supplies the raw tick counter for splash timing.
type Millis interface {
	Millis() uint32
}

type Screen struct {
	disp types.Display
	clk  Millis
	log  *logx.Logger

	available bool

	splashActive bool
	splashStart  uint32
	splashMs     uint32
	onFinish     func()

	queued [rows]struct {
		set  bool
		text string
	}
	anyQueued bool
}

func New(disp types.Display, clk Millis, log *logx.Logger) *Screen {
	return &Screen{disp: disp, clk: clk, log: log}
}

// InitWithSplash configures the display and paints the splash for durationMs.
// onFinish fires once, when the splash expires, or immediately if no display
// is attached. Returns whether a display was found.
func (s *Screen) InitWithSplash(title, subtitle string, durationMs uint32, onFinish func()) bool {
	if err := s.disp.Configure(); err != nil {
		s.log.Warnf("screen: no display: %v", err)
		s.available = false
		if onFinish != nil {
			onFinish()
		}
		return false
	}
	s.available = true
	s.onFinish = onFinish
	s.splashActive = true
	s.splashStart = s.clk.Millis()
	s.splashMs = durationMs
	if err := s.disp.PaintSplash(title, subtitle); err != nil {
		s.log.Warnf("screen: splash paint failed: %v", err)
	}
	return true
}

func (s *Screen) Available() bool { return s.available }

// ShowStatus paints a two-line status. During the splash it is queued.
func (s *Screen) ShowStatus(line0, line1 string) {
	s.setRow(0, line0)
	s.setRow(1, line1)
	s.flushIfLive()
}

// ShowError paints a single error line.
func (s *Screen) ShowError(msg string) {
	s.setRow(0, "Error:")
	s.setRow(1, msg)
	s.flushIfLive()
}

func (s *Screen) setRow(row int, text string) {
	if row < 0 || row >= rows {
		return
	}
	s.queued[row].set = true
	s.queued[row].text = text
	s.anyQueued = true
}

func (s *Screen) flushIfLive() {
	if !s.available || s.splashActive {
		return
	}
	s.paintQueued()
}

// Tick expires the splash and replays anything queued behind it.
func (s *Screen) Tick() {
	if !s.available || !s.splashActive {
		return
	}
	if timex.ElapsedMs32(s.clk.Millis(), s.splashStart) < s.splashMs {
		return
	}
	s.splashActive = false
	if s.anyQueued {
		s.paintQueued()
	} else {
		s.disp.Clear()
		if err := s.disp.Flush(); err != nil {
			s.log.Warnf("screen: flush failed: %v", err)
		}
	}
	if s.onFinish != nil {
		fn := s.onFinish
		s.onFinish = nil
		fn()
	}
}

// paintQueued renders all pending rows in one clear and flush.
func (s *Screen) paintQueued() {
	s.disp.Clear()
	for i := range s.queued {
		if s.queued[i].set {
			s.disp.PrintLine(i, s.queued[i].text)
			s.queued[i].set = false
		}
	}
	s.anyQueued = false
	if err := s.disp.Flush(); err != nil {
		s.log.Warnf("screen: flush failed: %v", err)
	}
}
