package conv

const hexd = "0123456789ABCDEF"

// U8Hex writes 2-digit uppercase hex without 0x, zero-padded.
func U8Hex(buf []byte, n uint8) []byte {
	if len(buf) < 2 {
		return buf[:0]
	}
	buf[0] = hexd[n>>4]
	buf[1] = hexd[n&0xF]
	return buf[:2]
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into components.
func ParseHexColor(s string) (r, g, b uint8, ok bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	var v [6]uint8
	for i := 0; i < 6; i++ {
		n, good := hexNibble(s[i])
		if !good {
			return 0, 0, 0, false
		}
		v[i] = n
	}
	return v[0]<<4 | v[1], v[2]<<4 | v[3], v[4]<<4 | v[5], true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64. No allocations.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if n == 0 {
		if i == 0 {
			return buf[:0]
		}
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}
