//go:build rp2040 || rp2350

package strconvx

import "errors"

// Small strconv subset that avoids the full stdlib tables on MCU builds.

var errSyntax = errors.New("strconvx: invalid syntax")

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func Atoi(s string) (int, error) {
	v, err := ParseInt(s, 10, 0)
	return int(v), err
}

func FormatInt(i int64, base int) string {
	if i < 0 {
		return "-" + FormatUint(uint64(-i), base)
	}
	return FormatUint(uint64(i), base)
}

func FormatUint(u uint64, base int) string {
	const digits = "0123456789abcdef"
	if base < 2 || base > 16 {
		base = 10
	}
	var buf [64]byte
	i := len(buf)
	if u == 0 {
		i--
		buf[i] = '0'
	}
	for u > 0 {
		i--
		buf[i] = digits[u%uint64(base)]
		u /= uint64(base)
	}
	return string(buf[i:])
}

func ParseInt(s string, base, bitSize int) (int64, error) {
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	u, err := ParseUint(s, base, bitSize)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(u), nil
	}
	return int64(u), nil
}

func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base == 0 {
		base = 10
	}
	if len(s) == 0 || base < 2 || base > 16 {
		return 0, errSyntax
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		var d byte
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, errSyntax
		}
		if int(d) >= base {
			return 0, errSyntax
		}
		v = v*uint64(base) + uint64(d)
	}
	return v, nil
}
