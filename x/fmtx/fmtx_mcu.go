//go:build rp2040 || rp2350

package fmtx

import (
	"io"

	"heaterctl-go/x/strconvx"
)

// Tiny formatter subset kept small for MCU builds.
// Supports: %s %q %d %x %X %v %t %%. No width/precision flags.

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write([]byte(Sprintf(format, a...)))
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

func Sprint(a ...any) string {
	var b builder
	for i, v := range a {
		if i > 0 {
			b.byte(' ')
		}
		b.any(v, 'v')
	}
	return string(b.buf)
}

func Fprint(w io.Writer, a ...any) (int, error) {
	return w.Write([]byte(Sprint(a...)))
}

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++
		b.verb(arg, verb)
	}
}

func (b *builder) verb(arg any, verb byte) {
	switch verb {
	case 's', 'q':
		s, ok := asString(arg)
		if !ok {
			b.any(arg, 'v')
			return
		}
		if verb == 'q' {
			b.quote(s)
			return
		}
		b.str(s)
	case 'd':
		b.str(strconvx.FormatInt(toI64(arg), 10))
	case 'x', 'X':
		h := strconvx.FormatUint(uint64(toI64(arg)), 16)
		if verb == 'X' {
			h = upperHex(h)
		}
		b.str(h)
	case 't':
		if v, ok := arg.(bool); ok && v {
			b.str("true")
		} else {
			b.str("false")
		}
	case 'v':
		b.any(arg, 'v')
	default:
		// Unknown verb: write it literally to aid debugging.
		b.byte('%')
		b.byte(verb)
	}
}

func (b *builder) any(v any, verb byte) {
	switch x := v.(type) {
	case string:
		if verb == 'q' {
			b.quote(x)
		} else {
			b.str(x)
		}
	case []byte:
		b.str(string(x))
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case error:
		b.str(x.Error())
	case int, int8, int16, int32, int64:
		b.str(strconvx.FormatInt(toI64(x), 10))
	case uint, uint8, uint16, uint32, uint64:
		b.str(strconvx.FormatUint(toU64(x), 10))
	default:
		b.str("<unk>")
	}
}

func (b *builder) quote(s string) {
	b.byte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.byte('\\')
			b.byte(s[i])
		case '\n':
			b.str("\\n")
		case '\r':
			b.str("\\r")
		case '\t':
			b.str("\\t")
		default:
			b.byte(s[i])
		}
	}
	b.byte('"')
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case error:
		return x.Error(), true
	}
	return "", false
}

func toI64(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint, uint8, uint16, uint32, uint64:
		return int64(toU64(t))
	default:
		return 0
	}
}

func toU64(v any) uint64 {
	switch t := v.(type) {
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	default:
		return 0
	}
}
