package timeline

import (
	"cmp"
	"time"

	"golang.org/x/exp/slices"
	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/trace"
)

// Markers below this zoom level are hidden if they're low priority.
const lowPriorityVisibilityThreshold = 4 // pixels per millisecond

type MarkerStyle struct {
	Title string
	Color color.Oklch
	// Tall markers extend below the flame chart's header.
	Tall        bool
	LowPriority bool
	LineWidth   float32
	DashStyle   []float32
}

var tallMarkerDashStyle = []float32{10, 5}

var frameMarkerStyle = MarkerStyle{
	Title:       "Frame",
	Color:       colors[colorMarkerFrame],
	Tall:        true,
	LowPriority: true,
	LineWidth:   3,
	DashStyle:   []float32{3},
}

func markerStyleForEvent(ev *trace.Event, mark trace.Mark) MarkerStyle {
	style := MarkerStyle{
		Title:     ev.Name,
		Color:     colors[colorMarkerTimeStamp],
		LineWidth: 0.5,
		DashStyle: tallMarkerDashStyle,
	}
	if mark.Message != "" {
		style.Title = mark.Message
	}
	if ev.HasCategory(CategoryConsole) || ev.HasCategory(CategoryUserTiming) {
		return style
	}
	switch mark.Kind {
	case trace.MarkDOMContent:
		style.Color = colors[colorMarkerDOMContent]
		style.Tall = true
	case trace.MarkLoad:
		style.Color = colors[colorMarkerLoad]
		style.Tall = true
	case trace.MarkFirstPaint, trace.MarkFirstContentfulPaint:
		style.Color = colors[colorMarkerFirstPaint]
		style.Tall = true
	}
	return style
}

// Marker is a timeline-wide vertical annotation. Markers don't belong to any level.
type Marker struct {
	Start trace.Timestamp
	// Offset is the marker's distance from the start of the timeline.
	Offset time.Duration
	Style  MarkerStyle
}

func (m *Marker) Title() string {
	return local.Sprintf("%s at %s", m.Style.Title, roundDuration(m.Offset))
}

// Visible reports whether the marker should be drawn at the given zoom level.
func (m *Marker) Visible(pxPerMs float64) bool {
	return !m.Style.LowPriority || pxPerMs >= lowPriorityVisibilityThreshold
}

// Markers collects markers in any order and sorts them once.
type Markers struct {
	markers []Marker
	sorted  bool
}

func (ms *Markers) Add(m Marker) {
	ms.markers = append(ms.markers, m)
	ms.sorted = false
}

// Finalize sorts the markers by start time. Markers with equal start times stay in the order they were added.
func (ms *Markers) Finalize() []Marker {
	if !ms.sorted {
		slices.SortStableFunc(ms.markers, func(a, b Marker) int {
			return cmp.Compare(a.Start, b.Start)
		})
		ms.sorted = true
	}
	return ms.markers
}

func (ms *Markers) Len() int { return len(ms.markers) }

// Reset drops all markers. Slices returned by earlier calls to Finalize are left intact.
func (ms *Markers) Reset() {
	ms.markers = nil
	ms.sorted = false
}
