package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/trace"
)

func TestColorGenerator(t *testing.T) {
	g := newConsoleColorGenerator()
	a := g.ColorForID("timer")
	assert.Equal(t, a, g.ColorForID("timer"))
	// A fresh generator produces the same colors.
	assert.Equal(t, a, newConsoleColorGenerator().ColorForID("timer"))
	assert.InDelta(t, 0.7, a.A, 1e-6)

	seen := map[color.Oklch]bool{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		seen[g.ColorForID(id)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestColorSpace(t *testing.T) {
	s := ColorSpace{Min: 70, Max: 100, Count: 6}
	assert.Equal(t, 70.0, s.value(0))
	assert.InDelta(t, 76.0, s.value(1), 1e-9)
	assert.Equal(t, 100.0, s.value(5))
	assert.Equal(t, 70.0, s.value(6))

	s = ColorSpace{Min: 30, Max: 55}
	assert.Equal(t, 30.0, s.value(0))
	assert.Equal(t, 55.0, s.value(25))
	assert.Equal(t, 30.0, s.value(26))

	assert.Equal(t, 50.0, ColorSpace{Min: 50, Max: 50}.value(3))
}

func TestEventCategory(t *testing.T) {
	assert.Equal(t, CategoryOther, eventCategory(&trace.Event{}))
	assert.Equal(t, CategoryPainting, eventCategory(&trace.Event{Categories: []string{"devtools.timeline", CategoryPainting}}))
	assert.Equal(t, colors[colorCategoryOther], categoryColor("unknown"))

	_, ok := priorityColor(trace.PriorityUnknown)
	assert.False(t, ok)
	c, ok := priorityColor(trace.PriorityVeryLow)
	assert.True(t, ok)
	assert.Equal(t, colors[colorPriorityVeryLow], c)

	assert.Equal(t, colors[colorInteractionScroll], interactionColor("Fling"))
	assert.Equal(t, colors[colorInteractionUncategorized], interactionColor("Idle"))
}

func TestTrimMiddle(t *testing.T) {
	assert.Equal(t, "short", trimMiddle("short", 10))
	assert.Equal(t, "abc…hij", trimMiddle("abcdefghij", 7))
	assert.Equal(t, "ab…ij", trimMiddle("abcdefghij", 5))
}
