package tinylfu

import "honnef.co/go/tracelayout/tinylfu/internal/list"

type segment uint8

const (
	segmentWindow segment = iota
	segmentProbation
	segmentProtected
)

type entry[K comparable, V any] struct {
	segment segment
	key     K
	value   V
	hash    uint64
}

type element[K comparable, V any] = list.Element[*entry[K, V]]

// window is the small LRU that new keys enter. Keys it pushes out compete for admission to the main segments.
type window[K comparable, V any] struct {
	index map[K]*element[K, V]
	cap   int
	ll    *list.List[*entry[K, V]]
}

func newWindow[K comparable, V any](cap int, index map[K]*element[K, V]) *window[K, V] {
	return &window[K, V]{
		index: index,
		cap:   cap,
		ll:    list.New[*entry[K, V]](),
	}
}

func (w *window[K, V]) touch(e *element[K, V]) {
	w.ll.MoveToFront(e)
}

// insert adds n, returning the entry it pushed out, if any.
func (w *window[K, V]) insert(n entry[K, V]) (out entry[K, V], full bool) {
	n.segment = segmentWindow
	if w.ll.Len() < w.cap {
		w.index[n.key] = w.ll.PushFront(&n)
		return entry[K, V]{}, false
	}

	e := w.ll.Back()
	out = *e.Value
	delete(w.index, out.key)
	*e.Value = n
	w.index[n.key] = e
	w.ll.MoveToFront(e)
	return out, true
}

// segmentedLRU is the main area of the cache. Admitted keys start on probation and become protected when they're
// hit again. Protected keys that fall out of their segment go back to probation.
type segmentedLRU[K comparable, V any] struct {
	index        map[K]*element[K, V]
	probation    *list.List[*entry[K, V]]
	protected    *list.List[*entry[K, V]]
	probationCap int
	protectedCap int
}

func newSegmentedLRU[K comparable, V any](probationCap, protectedCap int, index map[K]*element[K, V]) *segmentedLRU[K, V] {
	return &segmentedLRU[K, V]{
		index:        index,
		probation:    list.New[*entry[K, V]](),
		protected:    list.New[*entry[K, V]](),
		probationCap: probationCap,
		protectedCap: protectedCap,
	}
}

func (s *segmentedLRU[K, V]) len() int { return s.probation.Len() + s.protected.Len() }
func (s *segmentedLRU[K, V]) full() bool {
	return s.len() >= s.probationCap+s.protectedCap
}

func (s *segmentedLRU[K, V]) touch(e *element[K, V]) {
	en := e.Value
	if en.segment == segmentProtected {
		s.protected.MoveToFront(e)
		return
	}

	if s.protected.Len() < s.protectedCap {
		s.probation.Remove(e)
		en.segment = segmentProtected
		s.index[en.key] = s.protected.PushFront(en)
		return
	}

	// Trade places with the least recently used protected entry.
	demoted := s.protected.Back()
	*demoted.Value, *en = *en, *demoted.Value
	demoted.Value.segment = segmentProtected
	en.segment = segmentProbation
	s.index[demoted.Value.key] = demoted
	s.index[en.key] = e
	s.probation.MoveToFront(e)
	s.protected.MoveToFront(demoted)
}

func (s *segmentedLRU[K, V]) insert(n entry[K, V]) {
	n.segment = segmentProbation
	if s.probation.Len() < s.probationCap || !s.full() {
		s.index[n.key] = s.probation.PushFront(&n)
		return
	}

	e := s.probation.Back()
	delete(s.index, e.Value.key)
	*e.Value = n
	s.index[n.key] = e
	s.probation.MoveToFront(e)
}

// victim returns the entry that the next insertion would evict, or nil if there's still room.
func (s *segmentedLRU[K, V]) victim() *entry[K, V] {
	if !s.full() {
		return nil
	}
	return s.probation.Back().Value
}
