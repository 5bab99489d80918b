package timeline

import (
	"fmt"
	"time"

	"honnef.co/go/tracelayout/mem"
	"honnef.co/go/tracelayout/trace"
)

// InstantEventVisibleDuration is the duration given to entries of events that have no duration, so that they
// remain hittable.
const InstantEventVisibleDuration = time.Microsecond

type EntryKind uint8

const (
	EntryNone EntryKind = iota
	EntryHeader
	EntryFrame
	EntryEvent
	EntryInteractionRecord
	EntryNetworkRequest
)

func (k EntryKind) String() string {
	switch k {
	case EntryNone:
		return "none"
	case EntryHeader:
		return "header"
	case EntryFrame:
		return "frame"
	case EntryEvent:
		return "event"
	case EntryInteractionRecord:
		return "interaction"
	case EntryNetworkRequest:
		return "request"
	default:
		return fmt.Sprintf("EntryKind(%d)", k)
	}
}

// Entry is a single bar in the flame chart. At most one of Event, Frame, Request and Segment is set, according
// to Kind. Header entries only have a title.
type Entry struct {
	Kind     EntryKind
	Level    int
	Start    trace.Timestamp
	Duration time.Duration
	Title    string

	Event   *trace.Event
	Frame   *trace.Frame
	Request *trace.NetworkRequest
	Segment *trace.Segment
}

func (e *Entry) End() trace.Timestamp {
	return e.Start.Add(e.Duration)
}

// Source returns the object the entry was created for, or nil for header entries. The returned value is
// comparable by identity.
func (e *Entry) Source() any {
	switch e.Kind {
	case EntryFrame:
		return e.Frame
	case EntryEvent:
		return e.Event
	case EntryInteractionRecord:
		return e.Segment
	case EntryNetworkRequest:
		return e.Request
	default:
		return nil
	}
}

// Entries is the append-only entry index of a layout. Indices are dense and assigned in append order.
type Entries struct {
	s mem.BucketSlice[Entry]
}

// Append adds e and returns its index.
func (es *Entries) Append(e Entry) int {
	return es.s.Append(e)
}

func (es *Entries) Len() int { return es.s.Len() }

// At returns a pointer to the i-th entry. It panics if i is out of range.
func (es *Entries) At(i int) *Entry { return es.s.Ptr(i) }

func (es *Entries) Level(i int) int { return es.s.Ptr(i).Level }
func (es *Entries) Start(i int) trace.Timestamp { return es.s.Ptr(i).Start }
func (es *Entries) Duration(i int) time.Duration { return es.s.Ptr(i).Duration }
func (es *Entries) Source(i int) any { return es.s.Ptr(i).Source() }
func (es *Entries) inRange(i int) bool { return i >= 0 && i < es.s.Len() }
func (es *Entries) setLevel(i int, level int) { es.s.Ptr(i).Level = level }

// find returns the index of the first entry whose source is identical to obj, or -1.
func (es *Entries) find(obj any) int {
	if obj == nil {
		return -1
	}
	for i := 0; i < es.s.Len(); i++ {
		if es.s.Ptr(i).Source() == obj {
			return i
		}
	}
	return -1
}

// visibleDuration returns the duration of an event's entry.
func visibleDuration(ev *trace.Event) time.Duration {
	if d := ev.Duration(); d > 0 {
		return d
	}
	return InstantEventVisibleDuration
}
