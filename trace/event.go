// Package trace describes already-parsed trace events, the input of the timeline layout engine.
package trace

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"
	"honnef.co/go/tracelayout/container"
)

// Timestamp is a point in time, in nanoseconds.
type Timestamp int64

func (ts Timestamp) Add(d time.Duration) Timestamp { return ts + Timestamp(d) }
func (ts Timestamp) Sub(o Timestamp) time.Duration { return time.Duration(ts - o) }

type Phase uint8

const (
	PhaseNone Phase = iota

	PhaseBegin
	PhaseEnd
	PhaseComplete
	PhaseInstant

	PhaseAsyncBegin
	PhaseAsyncStepInto
	PhaseAsyncStepPast
	PhaseAsyncEnd

	PhaseNestableAsyncBegin
	PhaseNestableAsyncInstant
	PhaseNestableAsyncEnd

	PhaseFlowBegin
	PhaseFlowStep
	PhaseFlowEnd

	PhaseMetadata
	PhaseCounter
	PhaseMark

	PhaseLast
)

// Letters as used by the Chrome trace event format.
var phaseLetters = [PhaseLast]string{
	PhaseNone:                 "",
	PhaseBegin:                "B",
	PhaseEnd:                  "E",
	PhaseComplete:             "X",
	PhaseInstant:              "I",
	PhaseAsyncBegin:           "S",
	PhaseAsyncStepInto:        "T",
	PhaseAsyncStepPast:        "p",
	PhaseAsyncEnd:             "F",
	PhaseNestableAsyncBegin:   "b",
	PhaseNestableAsyncInstant: "n",
	PhaseNestableAsyncEnd:     "e",
	PhaseFlowBegin:            "s",
	PhaseFlowStep:             "t",
	PhaseFlowEnd:              "f",
	PhaseMetadata:             "M",
	PhaseCounter:              "C",
	PhaseMark:                 "R",
}

func (p Phase) String() string {
	if p >= PhaseLast {
		return fmt.Sprintf("Phase(%d)", p)
	}
	return phaseLetters[p]
}

func ParsePhase(s string) (Phase, error) {
	if s == "i" {
		// Old traces use a lower case instant phase.
		return PhaseInstant, nil
	}
	for p, l := range phaseLetters {
		if l == s && s != "" {
			return Phase(p), nil
		}
	}
	return PhaseNone, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) IsAsync() bool {
	switch p {
	case PhaseAsyncBegin, PhaseAsyncStepInto, PhaseAsyncStepPast, PhaseAsyncEnd:
		return true
	default:
		return p.IsNestableAsync()
	}
}

func (p Phase) IsNestableAsync() bool {
	switch p {
	case PhaseNestableAsyncBegin, PhaseNestableAsyncInstant, PhaseNestableAsyncEnd:
		return true
	default:
		return false
	}
}

func (p Phase) IsFlow() bool {
	switch p {
	case PhaseFlowBegin, PhaseFlowStep, PhaseFlowEnd:
		return true
	default:
		return false
	}
}

type Event struct {
	Name       string
	Categories []string
	Phase      Phase
	Start      Timestamp
	// End is unset for instantaneous events and for events whose end wasn't recorded.
	End container.Option[Timestamp]
	// ID groups the events of an async or flow chain.
	ID       string
	SelfTime time.Duration
	Warning  string
	Payload  Payload
	// Steps holds the ordered begin, step and end events of a multi-step async event.
	Steps []*Event
}

// Duration returns the event's duration, or 0 for events without an end.
func (ev *Event) Duration() time.Duration {
	return ev.End.GetOr(ev.Start).Sub(ev.Start)
}

func (ev *Event) HasCategory(cat string) bool {
	return slices.Contains(ev.Categories, cat)
}

func (ev *Event) String() string {
	return fmt.Sprintf("%s [%s] @ %d", ev.Name, ev.Phase, ev.Start)
}

// Payload is the phase- and name-specific data of an event. The set of payloads is closed; consumers use type
// switches over the types in this file.
type Payload interface {
	isPayload()
}

// JSFrame is a JavaScript stack frame sample.
type JSFrame struct {
	FunctionName string
	URL          string
	Line         int
	Column       int
}

// AsyncStep is the payload of async step events.
type AsyncStep struct {
	Step string
}

type MarkKind uint8

const (
	MarkNone MarkKind = iota
	MarkTimeStamp
	MarkDOMContent
	MarkLoad
	MarkFirstPaint
	MarkFirstContentfulPaint
)

var markKindNames = [...]string{
	MarkNone:                 "",
	MarkTimeStamp:            "TimeStamp",
	MarkDOMContent:           "MarkDOMContent",
	MarkLoad:                 "MarkLoad",
	MarkFirstPaint:           "MarkFirstPaint",
	MarkFirstContentfulPaint: "firstContentfulPaint",
}

func (k MarkKind) String() string {
	if int(k) >= len(markKindNames) {
		return fmt.Sprintf("MarkKind(%d)", k)
	}
	return markKindNames[k]
}

func ParseMarkKind(s string) (MarkKind, error) {
	for k, n := range markKindNames {
		if n == s && s != "" {
			return MarkKind(k), nil
		}
	}
	return MarkNone, fmt.Errorf("unknown mark kind %q", s)
}

// Mark turns an event into a timeline-wide marker.
type Mark struct {
	Kind MarkKind
	// Message is the user-supplied label of TimeStamp marks.
	Message string
}

// TopLevel marks container events, such as message loop tasks, that wrap all other work.
type TopLevel struct{}

// Details carries a preformatted description of the event.
type Details struct {
	Text string
}

func (JSFrame) isPayload()   {}
func (AsyncStep) isPayload() {}
func (Mark) isPayload()      {}
func (TopLevel) isPayload()  {}
func (Details) isPayload()   {}
