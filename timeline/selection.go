package timeline

import "honnef.co/go/tracelayout/trace"

// Selection refers to something the user selected in the flame chart. Object returns the selected object, which
// is compared by identity, or nil for selections that don't refer to an object.
type Selection interface {
	Object() any
}

type EventSelection struct{ Event *trace.Event }
type FrameSelection struct{ Frame *trace.Frame }
type NetworkRequestSelection struct{ Request *trace.NetworkRequest }

// RangeSelection selects a span of time and no entry.
type RangeSelection struct {
	Start trace.Timestamp
	End   trace.Timestamp
}

func (sel EventSelection) Object() any { return sel.Event }
func (sel FrameSelection) Object() any { return sel.Frame }
func (sel NetworkRequestSelection) Object() any { return sel.Request }
func (sel RangeSelection) Object() any { return nil }

// selector caches the most recent selection and its entry index.
type selector struct {
	last  Selection
	index int
}

func (s *selector) reset() {
	*s = selector{}
}

func (s *selector) remember(sel Selection, index int) {
	s.last = sel
	s.index = index
}

// cached returns the index of the last selection if it refers to the same object as sel.
func (s *selector) cached(sel Selection) (int, bool) {
	if s.last == nil {
		return 0, false
	}
	if obj := sel.Object(); obj != nil && s.last.Object() == obj {
		return s.index, true
	}
	return 0, false
}

// lookup finds the index for sel, trying the cache first. find is called on cache misses and returns -1 if the
// object isn't indexed.
func (s *selector) lookup(sel Selection, find func(obj any) int) int {
	if idx, ok := s.cached(sel); ok {
		return idx
	}
	idx := find(sel.Object())
	if idx != -1 {
		s.remember(sel, idx)
	}
	return idx
}
