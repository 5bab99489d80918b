package timeline

import (
	"github.com/sirupsen/logrus"
	"honnef.co/go/tracelayout/container"
	"honnef.co/go/tracelayout/trace"
)

type FlowPoint struct {
	Time  trace.Timestamp
	Level int
}

// Flow is an arrow connecting two points of the flame chart. End is unset if the flow was never continued.
type Flow struct {
	Start FlowPoint
	End   container.Option[FlowPoint]
}

// flowTable links flow begin, step and end events that share an ID.
type flowTable struct {
	flows []Flow
	// Index into flows of the currently open flow for each ID.
	open map[string]int
}

func (ft *flowTable) reset() {
	ft.flows = nil
	clear(ft.open)
}

func (ft *flowTable) begin(ev *trace.Event, level int) {
	if ft.open == nil {
		ft.open = make(map[string]int)
	}
	ft.open[ev.ID] = len(ft.flows)
	ft.flows = append(ft.flows, Flow{Start: FlowPoint{ev.Start, level}})
}

func (ft *flowTable) finish(ev *trace.Event, level int, log logrus.FieldLogger) bool {
	idx, ok := ft.open[ev.ID]
	if !ok {
		log.WithFields(logrus.Fields{
			"id":    ev.ID,
			"phase": ev.Phase.String(),
			"ts":    ev.Start,
		}).Debug("flow event without open flow")
		return false
	}
	ft.flows[idx].End = container.Some(FlowPoint{ev.Start, level})
	delete(ft.open, ev.ID)
	return true
}

// add processes a flow event at the given level. Steps end the open flow and start a new one.
func (ft *flowTable) add(ev *trace.Event, level int, log logrus.FieldLogger) {
	switch ev.Phase {
	case trace.PhaseFlowBegin:
		ft.begin(ev, level)
	case trace.PhaseFlowStep:
		ft.finish(ev, level, log)
		ft.begin(ev, level)
	case trace.PhaseFlowEnd:
		ft.finish(ev, level, log)
	default:
		panic("unreachable")
	}
}
