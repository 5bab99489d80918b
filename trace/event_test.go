package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/tracelayout/container"
)

func TestParsePhase(t *testing.T) {
	for p := PhaseBegin; p < PhaseLast; p++ {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePhase("i")
	require.NoError(t, err)
	assert.Equal(t, PhaseInstant, got)

	for _, s := range []string{"", "Q", "BE"} {
		_, err := ParsePhase(s)
		assert.Errorf(t, err, "phase %q", s)
	}
	assert.Equal(t, "Phase(200)", Phase(200).String())
}

func TestPhaseClasses(t *testing.T) {
	tt := []struct {
		p        Phase
		async    bool
		nestable bool
		flow     bool
	}{
		{PhaseComplete, false, false, false},
		{PhaseInstant, false, false, false},
		{PhaseAsyncBegin, true, false, false},
		{PhaseAsyncStepPast, true, false, false},
		{PhaseNestableAsyncBegin, true, true, false},
		{PhaseNestableAsyncEnd, true, true, false},
		{PhaseFlowBegin, false, false, true},
		{PhaseFlowEnd, false, false, true},
		{PhaseMark, false, false, false},
	}
	for _, tc := range tt {
		assert.Equal(t, tc.async, tc.p.IsAsync(), "%s", tc.p)
		assert.Equal(t, tc.nestable, tc.p.IsNestableAsync(), "%s", tc.p)
		assert.Equal(t, tc.flow, tc.p.IsFlow(), "%s", tc.p)
	}
}

func TestParseMarkKind(t *testing.T) {
	for k := MarkTimeStamp; k <= MarkFirstContentfulPaint; k++ {
		got, err := ParseMarkKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseMarkKind("")
	assert.Error(t, err)
	_, err = ParseMarkKind("MarkUnload")
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityVeryHigh, ParsePriority("VeryHigh"))
	assert.Equal(t, PriorityLow, ParsePriority("Low"))
	assert.Equal(t, PriorityUnknown, ParsePriority("Urgent"))
	assert.Equal(t, "Medium", PriorityMedium.String())
	assert.Equal(t, "Unknown", Priority(42).String())
}

func TestEvent(t *testing.T) {
	ev := &Event{Name: "Layout", Phase: PhaseComplete, Start: 10, End: container.Some[Timestamp](25), Categories: []string{"a", "b"}}
	assert.EqualValues(t, 15, ev.Duration())
	assert.True(t, ev.HasCategory("b"))
	assert.False(t, ev.HasCategory("c"))
	assert.Equal(t, "Layout [X] @ 10", ev.String())

	assert.Zero(t, (&Event{Start: 10}).Duration())
}

func TestModel(t *testing.T) {
	var m Model
	assert.True(t, m.IsEmpty())
	m.Threads = []Thread{{Name: "worker"}}
	assert.True(t, m.IsEmpty())
	m.Threads[0].Events = []*Event{{Name: "x"}}
	assert.False(t, m.IsEmpty())

	m = Model{Requests: []*NetworkRequest{{URL: "https://example.com"}}}
	assert.False(t, m.IsEmpty())

	f := &Frame{Start: 100, Duration: 16}
	assert.Equal(t, Timestamp(116), f.End())
}

func TestSortEvents(t *testing.T) {
	parent := &Event{Name: "parent", Start: 5}
	child := &Event{Name: "child", Start: 5}
	early := &Event{Name: "early", Start: 1}
	events := []*Event{parent, child, early}
	SortEvents(events)
	assert.Equal(t, []*Event{early, parent, child}, events)
}
