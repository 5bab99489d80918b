package trace

import (
	"cmp"
	"time"

	"golang.org/x/exp/slices"
)

// Frame is a rendering frame, as computed by a frame model.
type Frame struct {
	Start       Timestamp
	Duration    time.Duration
	Idle        bool
	HasWarnings bool
}

func (f *Frame) End() Timestamp { return f.Start.Add(f.Duration) }

// Segment is one phase of a user interaction, such as scrolling or an animation.
type Segment struct {
	Begin Timestamp
	End   Timestamp
	Phase string
}

type Priority uint8

const (
	PriorityUnknown Priority = iota
	PriorityVeryLow
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityVeryHigh
)

var priorityNames = [...]string{
	PriorityUnknown:  "",
	PriorityVeryLow:  "VeryLow",
	PriorityLow:      "Low",
	PriorityMedium:   "Medium",
	PriorityHigh:     "High",
	PriorityVeryHigh: "VeryHigh",
}

func (p Priority) String() string {
	if int(p) >= len(priorityNames) {
		return "Unknown"
	}
	return priorityNames[p]
}

func ParsePriority(s string) Priority {
	for p, n := range priorityNames {
		if n == s {
			return Priority(p)
		}
	}
	return PriorityUnknown
}

type NetworkRequest struct {
	URL      string
	Start    Timestamp
	End      Timestamp
	Priority Priority
	// Children are the events (send, receive, finish) that make up the request.
	Children []*Event
}

// AsyncGroup is a category of async events that is laid out as its own group, such as console timers or
// animations.
type AsyncGroup struct {
	Title string
}

type Thread struct {
	Name string
	// Events is sorted by start time.
	Events []*Event
	Async  map[*AsyncGroup][]*Event
}

// Model is the input of a layout pass. All slices of events are sorted by start time.
type Model struct {
	// Min and Max are the record time boundaries.
	Min Timestamp
	Max Timestamp

	Main         Thread
	Threads      []Thread
	Frames       []*Frame
	Interactions []Segment
	GPUTasks     []*Event
	Requests     []*NetworkRequest

	// AsyncGroups is the registry of async groups, in the order in which they're laid out.
	AsyncGroups []*AsyncGroup
}

// IsEmpty reports whether the model contains no records at all.
func (m *Model) IsEmpty() bool {
	if len(m.Main.Events) != 0 || len(m.Main.Async) != 0 {
		return false
	}
	for _, t := range m.Threads {
		if len(t.Events) != 0 || len(t.Async) != 0 {
			return false
		}
	}
	return len(m.Frames) == 0 && len(m.Interactions) == 0 && len(m.GPUTasks) == 0 && len(m.Requests) == 0
}

// SortEvents sorts events by start time. Events that start at the same time keep their relative order, so that
// parents recorded before their children stay in front.
func SortEvents(events []*Event) {
	slices.SortStableFunc(events, func(a, b *Event) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
