// Package mem contains allocation-conscious containers.
package mem

const bucketSize = 64

// BucketSlice is like a slice, but grows one bucket at a time, instead of growing exponentially. Existing elements
// never move, so pointers returned by Ptr stay valid until the next Reset or Truncate.
type BucketSlice[T any] struct {
	n       int
	buckets [][]T
}

// Grow grows the slice by one and returns a pointer to the new element, without overwriting it.
func (l *BucketSlice[T]) Grow() *T {
	a, _ := l.index(l.n)
	if a >= len(l.buckets) {
		l.buckets = append(l.buckets, make([]T, 0, bucketSize))
	}
	l.buckets[a] = l.buckets[a][:len(l.buckets[a])+1]
	ptr := &l.buckets[a][len(l.buckets[a])-1]
	l.n++
	return ptr
}

// Append appends v to the slice and returns the index of the new element.
func (l *BucketSlice[T]) Append(v T) int {
	*l.Grow() = v
	return l.n - 1
}

func (l *BucketSlice[T]) index(i int) (int, int) {
	// Doing the division on uint compiles to a shift and an AND for power of 2 bucket sizes.
	return int(uint(i) / bucketSize), int(uint(i) % bucketSize)
}

func (l *BucketSlice[T]) Ptr(i int) *T {
	if i < 0 || i >= l.n {
		panic("index out of bounds")
	}
	a, b := l.index(i)
	return &l.buckets[a][b]
}

func (l *BucketSlice[T]) Get(i int) T {
	return *l.Ptr(i)
}

func (l *BucketSlice[T]) Set(i int, v T) {
	*l.Ptr(i) = v
}

func (l *BucketSlice[T]) Len() int {
	return l.n
}

// Reset empties the slice but keeps the buckets for reuse. Elements are zeroed so that the slice doesn't keep
// pointers alive.
func (l *BucketSlice[T]) Reset() {
	l.Truncate(0)
}

func (l *BucketSlice[T]) Truncate(n int) {
	if n >= l.n {
		return
	}
	a, b := l.index(n)
	clear(l.buckets[a][b:])
	l.buckets[a] = l.buckets[a][:b]
	for i := a + 1; i < len(l.buckets); i++ {
		clear(l.buckets[i])
		l.buckets[i] = l.buckets[i][:0]
	}
	l.n = n
}

// GrowLen increases the slice's length by n elements.
func GrowLen[S ~[]E, E any](s S, n int) S {
	return append(s, make([]E, n)...)
}

// EnsureLen grows s so that it has at least n elements.
func EnsureLen[S ~[]E, E any](s S, n int) S {
	if len(s) >= n {
		return s
	}
	return GrowLen(s, n-len(s))
}
