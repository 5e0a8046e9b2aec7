// Package logx is a small leveled logger with uptime-relative timestamps,
// suitable for both the host and the MCU serial console.
package logx

import (
	"io"

	"heaterctl-go/x/fmtx"
	"heaterctl-go/x/strx"
	"heaterctl-go/x/timex"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

// LevelFromString parses a level name case-insensitively. The second result
// is false if the name is unknown.
func LevelFromString(s string) (Level, bool) {
	switch strx.LowerASCII(s) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "off", "none":
		return LevelOff, true
	}
	return LevelInfo, false
}

// Logger writes timestamped lines to a single writer. Not safe for
// concurrent use; the firmware loop is single threaded.
type Logger struct {
	w      io.Writer
	level  Level
	uptime func() uint64
}

// New builds a logger. uptime returns milliseconds since boot and may be nil,
// in which case all timestamps read 00:00:00.000.
func New(w io.Writer, level Level, uptime func() uint64) *Logger {
	if uptime == nil {
		uptime = func() uint64 { return 0 }
	}
	return &Logger{w: w, level: level, uptime: uptime}
}

func (l *Logger) SetLevel(level Level) { l.level = level }
func (l *Logger) Level() Level         { return l.level }

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.level || l.w == nil {
		return
	}
	l.w.Write(stamp(l.uptime(), level))
	fmtx.Fprintf(l.w, format, args...)
	l.w.Write([]byte{'\n'})
}

// stamp renders "HH:MM:SS.mmm [LEVEL] ".
func stamp(uptimeMs uint64, level Level) []byte {
	h, m, s, ms := timex.MsToHMSms(uptimeMs)
	buf := make([]byte, 0, 24)
	buf = pad2(buf, h)
	buf = append(buf, ':')
	buf = pad2(buf, m)
	buf = append(buf, ':')
	buf = pad2(buf, s)
	buf = append(buf, '.')
	buf = pad3(buf, ms)
	buf = append(buf, ' ', '[')
	buf = append(buf, level.String()...)
	buf = append(buf, ']', ' ')
	return buf
}

func pad2(dst []byte, v uint64) []byte {
	return append(dst, byte('0'+(v/10)%10), byte('0'+v%10))
}

func pad3(dst []byte, v uint64) []byte {
	return append(dst, byte('0'+(v/100)%10), byte('0'+(v/10)%10), byte('0'+v%10))
}
