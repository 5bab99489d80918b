// Package tinylfu implements a TinyLFU cache (https://arxiv.org/abs/1512.00727). New keys enter a small LRU window
// and are only admitted to the main segmented LRU if they're estimated to be accessed more frequently than the entry
// they would evict.
package tinylfu

import "hash/maphash"

// windowPercent is the share of the capacity used by the admission window.
const windowPercent = 1

// T is a TinyLFU cache. It is not safe for concurrent access.
type T[K comparable, V any] struct {
	size    int
	samples int
	seed    maphash.Seed

	freq *sketch
	door *doorkeeper
	// Number of accesses since the frequencies were last halved.
	accesses int

	index map[K]*element[K, V]
	win   *window[K, V]
	main  *segmentedLRU[K, V]
}

// New returns a cache that holds up to size entries. Frequencies are aged after every samples accesses.
func New[K comparable, V any](size int, samples int) *T[K, V] {
	t := &T[K, V]{
		size:    size,
		samples: samples,
		seed:    maphash.MakeSeed(),
	}
	t.Purge()
	return t
}

// Purge drops all entries and all frequency information.
func (t *T[K, V]) Purge() {
	winSize := max(windowPercent*t.size/100, 1)
	mainSize := max(t.size-winSize, 1)
	probationSize := max(mainSize/5, 1)

	t.index = make(map[K]*element[K, V], t.size)
	t.freq = newSketch(t.size)
	t.door = newDoorkeeper(t.samples, 0.01)
	t.accesses = 0
	t.win = newWindow(winSize, t.index)
	t.main = newSegmentedLRU(probationSize, mainSize-probationSize, t.index)
}

func (t *T[K, V]) Len() int {
	return len(t.index)
}

func (t *T[K, V]) touch(e *element[K, V]) {
	t.freq.increment(e.Value.hash)
	if e.Value.segment == segmentWindow {
		t.win.touch(e)
	} else {
		t.main.touch(e)
	}
}

func (t *T[K, V]) Get(key K) (V, bool) {
	t.accesses++
	if t.accesses == t.samples {
		t.freq.halve()
		t.door.reset()
		t.accesses = 0
	}

	e, ok := t.index[key]
	if !ok {
		t.freq.increment(maphash.Comparable(t.seed, key))
		return *new(V), false
	}
	v := e.Value.value
	t.touch(e)
	return v, true
}

func (t *T[K, V]) Add(key K, val V) {
	if e, ok := t.index[key]; ok {
		e.Value.value = val
		t.touch(e)
		return
	}

	out, full := t.win.insert(entry[K, V]{key: key, value: val, hash: maphash.Comparable(t.seed, key)})
	if !full {
		return
	}

	victim := t.main.victim()
	if victim == nil {
		t.main.insert(out)
		return
	}
	if !t.door.allow(out.hash) {
		return
	}
	if t.freq.estimate(out.hash) < t.freq.estimate(victim.hash) {
		return
	}
	t.main.insert(out)
}

// GetOrCompute returns the cached value for key, computing and caching it with fn on a miss.
func (t *T[K, V]) GetOrCompute(key K, fn func(K) V) V {
	if v, ok := t.Get(key); ok {
		return v
	}
	v := fn(key)
	t.Add(key, v)
	return v
}
