package timex

// ElapsedMs32 returns the elapsed milliseconds between two readings of a
// 32-bit millisecond counter. The subtraction is performed modulo 2^32, so
// the result is correct across a single counter wrap.
func ElapsedMs32(now, start uint32) uint32 { return now - start }

// MsToHMSms splits a millisecond duration into hours, minutes, seconds and
// the millisecond remainder. Hours may grow beyond 24.
func MsToHMSms(ms uint64) (h, m, s, msec uint64) {
	total := ms / 1000
	return total / 3600, (total / 60) % 60, total % 60, ms % 1000
}
