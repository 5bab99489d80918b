package tinylfu

const sketchRows = 4

// sketch is a count-min sketch with 4-bit saturating counters. It estimates how often a key hash was seen since the
// counters were last halved.
type sketch struct {
	rows [sketchRows]counters
	mask uint32
}

func newSketch(width int) *sketch {
	if width < 1 {
		panic("tinylfu: bad sketch width")
	}
	// Four counters per key and row, 8 bytes per key in total.
	n := nextPowerOfTwo(uint32(width) * 4)
	s := &sketch{mask: n - 1}
	for row := range s.rows {
		s.rows[row] = make(counters, n/2)
	}
	return s
}

// index derives the counter of a row from the two halves of the hash.
func (s *sketch) index(h uint64, row int) uint32 {
	lo, hi := uint32(h), uint32(h>>32)
	return (lo + uint32(row)*hi) & s.mask
}

func (s *sketch) increment(h uint64) {
	for row := range s.rows {
		s.rows[row].increment(s.index(h, row))
	}
}

func (s *sketch) estimate(h uint64) uint8 {
	est := uint8(counterMax)
	for row := range s.rows {
		est = min(est, s.rows[row].get(s.index(h, row)))
	}
	return est
}

// halve ages all counters.
func (s *sketch) halve() {
	for _, r := range s.rows {
		r.halve()
	}
}

const counterMax = 0x0f

// counters packs two 4-bit counters into each byte, the even counter in the low nibble.
type counters []byte

func (c counters) get(i uint32) uint8 {
	return (c[i/2] >> ((i & 1) * 4)) & counterMax
}

func (c counters) increment(i uint32) {
	shift := (i & 1) * 4
	if (c[i/2]>>shift)&counterMax < counterMax {
		c[i/2] += 1 << shift
	}
}

func (c counters) halve() {
	for i, b := range c {
		c[i] = (b >> 1) & 0x77
	}
}
