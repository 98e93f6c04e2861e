package orders

import "unicode/utf16"

// HashString maps s to a non-negative seed with the 31-multiplier rolling
// hash over UTF-16 code units, wrapping at 32 bits.
func HashString(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		// -MinInt32 wraps to itself; as uint32 that is 1<<31, which is the
		// absolute value we want.
		h = -h
	}
	return uint32(h)
}

// stream is a Mulberry32 generator. Each call to Float64 advances the state.
type stream struct {
	state uint32
}

func newStream(seed uint32) *stream {
	return &stream{state: seed}
}

func seededStream(key string) *stream {
	return newStream(HashString(key))
}

// Float64 returns the next value in [0, 1).
func (s *stream) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Intn returns floor(Float64() * n).
func (s *stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}
