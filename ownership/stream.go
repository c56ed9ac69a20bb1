package ownership

// Stream is a per-household pseudo random stream. It uses the 48-bit linear
// congruential generator of java.util.Random so seeded runs reproduce the
// draws of the legacy model, and counts every draw.
type Stream struct {
	seed  uint64
	count int
}

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = (1 << 48) - 1
)

func NewStream(seed int64) *Stream {
	return &Stream{seed: (uint64(seed) ^ lcgMultiplier) & lcgMask}
}

func (s *Stream) next(bits uint) int64 {
	s.seed = (s.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int64(s.seed >> (48 - bits))
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	s.count++
	return float64(s.next(26)<<27+s.next(27)) / (1 << 53)
}

// Count is the number of values drawn so far.
func (s *Stream) Count() int {
	return s.count
}

// Skip draws and discards n values.
func (s *Stream) Skip(n int) {
	for i := 0; i < n; i++ {
		s.Float64()
	}
}
