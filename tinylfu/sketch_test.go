package tinylfu

import "testing"

func TestCounters(t *testing.T) {
	c := make(counters, 4)

	c.increment(0)
	c.increment(1)
	if c[0] != 0x11 {
		t.Errorf("c[0]=0x%02x, want 0x11", c[0])
	}
	for i := 0; i < 20; i++ {
		c.increment(1)
	}
	// Counters saturate without touching their neighbor.
	if got := c.get(1); got != counterMax {
		t.Errorf("c.get(1)=%d, want %d", got, counterMax)
	}
	if got := c.get(0); got != 1 {
		t.Errorf("c.get(0)=%d, want 1", got)
	}
	if got := c.get(2); got != 0 {
		t.Errorf("c.get(2)=%d, want 0", got)
	}

	c.halve()
	if c[0] != 0x70 {
		t.Errorf("c[0]=0x%02x after halving, want 0x70", c[0])
	}
}

func TestSketch(t *testing.T) {
	s := newSketch(32)
	h := uint64(0x0ddc0ffeebadf00d)

	s.increment(h)
	s.increment(h)
	if got := s.estimate(h); got != 2 {
		t.Errorf("s.estimate(%x)=%d, want 2", h, got)
	}
	for i := 0; i < 8; i++ {
		s.increment(h)
	}
	s.halve()
	if got := s.estimate(h); got != 5 {
		t.Errorf("s.estimate(%x)=%d after halving, want 5", h, got)
	}
}

func TestDoorkeeper(t *testing.T) {
	d := newDoorkeeper(100, 0.01)
	h := uint64(0x0ddc0ffeebadf00d)
	if d.allow(h) {
		t.Errorf("d.allow(%x) on first sighting, want false", h)
	}
	if !d.allow(h) {
		t.Errorf("d.allow(%x) on second sighting, want true", h)
	}
	d.reset()
	if d.allow(h) {
		t.Errorf("d.allow(%x) after reset, want false", h)
	}
}

var SinkByte byte

func BenchmarkSketchEstimate(b *testing.B) {
	s := newSketch(32)
	h := uint64(0x0ddc0ffeebadf00d)
	s.increment(h)
	for i := 0; i < b.N; i++ {
		SinkByte = s.estimate(h)
	}
}
