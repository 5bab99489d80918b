package timeline

import (
	"honnef.co/go/tracelayout/slices"
	"honnef.co/go/tracelayout/trace"
)

// stackAllocator assigns levels to synchronous events. An event's level is its depth in the chain of events that
// are still visible when it starts, which reproduces call stacks. Instant and zero-length events stay open for
// their visible duration.
type stackAllocator struct {
	open     []openEvent
	maxDepth int
}

type openEvent struct {
	ev  *trace.Event
	end trace.Timestamp
}

func (a *stackAllocator) reset() {
	clear(a.open)
	a.open = a.open[:0]
	a.maxDepth = 0
}

// close pops all open events whose entries end at or before ts.
func (a *stackAllocator) close(ts trace.Timestamp) {
	for {
		top := slices.Last(a.open)
		if top == nil || top.end > ts {
			return
		}
		_, a.open, _ = slices.Pop(a.open)
	}
}

func (a *stackAllocator) depth() int { return len(a.open) }

// attach returns the depth a flow point at the current position attaches to: the innermost open event, or the
// first level if none is open. The level is reserved either way.
func (a *stackAllocator) attach() int {
	a.maxDepth = max(a.maxDepth, 1)
	return max(a.depth()-1, 0)
}

// parent returns the innermost open event, or nil.
func (a *stackAllocator) parent() *trace.Event {
	if top := slices.Last(a.open); top != nil {
		return top.ev
	}
	return nil
}

// place records that ev was assigned the level at the current depth and returns that depth.
func (a *stackAllocator) place(ev *trace.Event) int {
	depth := len(a.open)
	a.maxDepth = max(a.maxDepth, depth+1)
	a.open = append(a.open, openEvent{ev: ev, end: ev.Start.Add(visibleDuration(ev))})
	return depth
}

// firstFitAllocator assigns levels to async events, which may overlap arbitrarily. Each event goes on the lowest
// level that is free at the event's start.
type firstFitAllocator struct {
	lastEnd []trace.Timestamp
}

func (a *firstFitAllocator) reset() {
	a.lastEnd = a.lastEnd[:0]
}

func (a *firstFitAllocator) place(start, end trace.Timestamp) int {
	level := 0
	for level < len(a.lastEnd) && a.lastEnd[level] > start {
		level++
	}
	if level == len(a.lastEnd) {
		a.lastEnd = append(a.lastEnd, end)
	} else {
		a.lastEnd[level] = end
	}
	return level
}

func (a *firstFitAllocator) levels() int { return len(a.lastEnd) }

// asyncEnd returns the end of the entries of an async event. Multi-step events end with their last step; all
// others end with their visible duration.
func asyncEnd(ev *trace.Event) trace.Timestamp {
	if ev.Phase.IsNestableAsync() || len(ev.Steps) < 2 {
		return ev.Start.Add(visibleDuration(ev))
	}
	return (*slices.Last(ev.Steps)).Start
}
