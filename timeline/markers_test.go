package timeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/tracelayout/trace"
)

func TestMarkersFinalize(t *testing.T) {
	var markers Markers
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		markers.Add(Marker{Start: trace.Timestamp(rng.Intn(10)), Style: MarkerStyle{Title: string(rune('a' + i%26))}, Offset: time.Duration(i)})
	}

	first := append([]Marker(nil), markers.Finalize()...)
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].Start, first[i].Start)
		if first[i-1].Start == first[i].Start {
			// Offsets record insertion order.
			assert.Less(t, first[i-1].Offset, first[i].Offset)
		}
	}
	assert.Equal(t, first, markers.Finalize())

	markers.Add(Marker{Start: -1})
	assert.Equal(t, trace.Timestamp(-1), markers.Finalize()[0].Start)
	assert.Equal(t, 101, markers.Len())

	snapshot := markers.Finalize()
	markers.Reset()
	assert.Equal(t, 0, markers.Len())
	assert.Empty(t, markers.Finalize())
	require.Len(t, snapshot, 101)
	assert.Equal(t, trace.Timestamp(-1), snapshot[0].Start)
}

func TestMarkerStyleForEvent(t *testing.T) {
	ev := &trace.Event{Name: "TimeStamp", Categories: []string{CategoryConsole}}
	style := markerStyleForEvent(ev, trace.Mark{Kind: trace.MarkLoad, Message: "checkpoint"})
	assert.Equal(t, "checkpoint", style.Title)
	assert.False(t, style.Tall)
	assert.Equal(t, colors[colorMarkerTimeStamp], style.Color)

	style = markerStyleForEvent(&trace.Event{Name: "firstPaint"}, trace.Mark{Kind: trace.MarkFirstPaint})
	assert.True(t, style.Tall)
	assert.False(t, style.LowPriority)
	assert.Equal(t, colors[colorMarkerFirstPaint], style.Color)

	m := Marker{Offset: 1500 * time.Millisecond, Style: style}
	assert.Equal(t, "firstPaint at 1.5s", m.Title())
	assert.True(t, m.Visible(0))
}
