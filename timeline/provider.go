// Package timeline lays out trace events as the rows of a flame chart.
//
// A DataProvider turns a trace.Model into a Layout: a dense index of entries, each assigned to a level, plus
// groups, markers and flows. Synchronous events stack by their nesting, async events are placed on the first free
// level of their group, and network requests get rows of their own. The layout is computed once and reused until
// the provider is reset.
//
// Providers are not safe for concurrent use.
package timeline

import (
	"time"

	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/mem"
	"honnef.co/go/tracelayout/trace"
)

// The total time of a timeline without any records.
const emptyTimelineSpan = time.Second

// DataProvider is implemented by ThreadProvider and NetworkProvider.
type DataProvider interface {
	// Reset discards the current layout. The next call to BuildLayout computes a new one.
	Reset()
	// BuildLayout computes the layout, or returns the existing one.
	BuildLayout() *Layout

	MinimumBoundary() trace.Timestamp
	TotalTime() time.Duration
	// MaxStackDepth returns the number of levels used by the layout.
	MaxStackDepth() int

	EntryTitle(idx int) string
	EntryColor(idx int) color.Oklch
	TextColor(idx int) color.Oklch
	HighlightTimeRange(idx int) (start, end trace.Timestamp)
	// EntryInfo describes an entry for tooltips. It returns false for entries without details.
	EntryInfo(idx int) (EntryInfo, bool)
	// ForceDecoration reports whether an entry is decorated even if it is too narrow to hold its title.
	ForceDecoration(idx int) bool

	// CreateSelection returns a selection for an entry, or nil if the entry can't be selected.
	CreateSelection(idx int) Selection
	// IndexForSelection returns the entry index of a selection, or -1.
	IndexForSelection(sel Selection) int
}

var (
	_ DataProvider = (*ThreadProvider)(nil)
	_ DataProvider = (*NetworkProvider)(nil)
)

type EntryInfo struct {
	Time     string
	Title    string
	Warning  string
	Priority string
}

// Group is a named partition of the levels.
type Group struct {
	Title      string
	StartLevel int
	Expanded   bool
}

// Layout is the result of a layout pass.
type Layout struct {
	Entries Entries
	Markers []Marker
	Groups  []Group
	Flows   []Flow

	// Kind of the entries on each level. Levels that separate groups have kind EntryNone.
	levels []EntryKind
	index  *levelIndex
}

// LevelKind returns the kind of entries on a level.
func (l *Layout) LevelKind(level int) EntryKind {
	if level < 0 || level >= len(l.levels) {
		return EntryNone
	}
	return l.levels[level]
}

func (l *Layout) setLevelKinds(from, n int, kind EntryKind) {
	l.levels = mem.EnsureLen(l.levels, from+n)
	for i := from; i < from+n; i++ {
		l.levels[i] = kind
	}
}

// EntriesAt returns the indices of the entries on level that contain ts, in ascending start order.
func (l *Layout) EntriesAt(level int, ts trace.Timestamp) []int {
	if l.index == nil {
		l.index = newLevelIndex(&l.Entries)
	}
	return l.index.at(&l.Entries, level, ts)
}

func (l *Layout) invalidateIndex() {
	l.index = nil
}

func timeSpan(m *trace.Model) time.Duration {
	if m.IsEmpty() {
		return emptyTimelineSpan
	}
	return m.Max.Sub(m.Min)
}
