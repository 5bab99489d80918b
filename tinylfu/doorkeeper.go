package tinylfu

import "math"

// doorkeeper is a bloom filter that admits a key into the frequency sketch only on its second sighting, so that
// one-hit wonders don't pollute the counters.
type doorkeeper struct {
	bits []uint64
	mask uint32
	k    uint32
}

func newDoorkeeper(capacity int, falsePositiveRate float64) *doorkeeper {
	if capacity < 1 {
		capacity = 1
	}
	ln2 := math.Ln2
	m := -float64(capacity) * math.Log(falsePositiveRate) / (ln2 * ln2)
	k := uint32(math.Ceil(m / float64(capacity) * ln2))
	if k < 1 {
		k = 1
	}
	n := nextPowerOfTwo(uint32(m))
	if n < 64 {
		n = 64
	}
	return &doorkeeper{
		bits: make([]uint64, n/64),
		mask: n - 1,
		k:    k,
	}
}

// allow reports whether keyh has been seen before. Unseen keys are recorded.
func (d *doorkeeper) allow(keyh uint64) bool {
	h1, h2 := uint32(keyh), uint32(keyh>>32)
	seen := true
	for i := uint32(0); i < d.k; i++ {
		bit := (h1 + i*h2) & d.mask
		word, off := bit/64, bit%64
		if d.bits[word]&(1<<off) == 0 {
			seen = false
			d.bits[word] |= 1 << off
		}
	}
	return seen
}

func (d *doorkeeper) reset() {
	clear(d.bits)
}

func nextPowerOfTwo(i uint32) uint32 {
	n := i - 1
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
