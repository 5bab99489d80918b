package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/tracelayout/trace"
)

func TestClassifierFilters(t *testing.T) {
	c := NewClassifier([]Filter{NewVisibleEventsFilter("Layout", "Paint"), ExcludeTopLevelFilter{}}, nil)
	assert.True(t, c.Visible(&trace.Event{Name: "Layout"}))
	assert.False(t, c.Visible(&trace.Event{Name: "GC"}))
	assert.False(t, c.Visible(&trace.Event{Name: "Paint", Payload: trace.TopLevel{}}))

	all := NewClassifier(nil, nil)
	assert.True(t, all.Visible(&trace.Event{Name: "GC"}))
	assert.True(t, NewVisibleEventsFilter().Accept(&trace.Event{Name: "anything"}))
}

func TestClassifierSync(t *testing.T) {
	c := NewClassifier(nil, nil)
	assert.True(t, c.Sync(complete("x", 0, 1)))
	assert.True(t, c.Sync(instant("x", 0)))
	assert.False(t, c.Sync(&trace.Event{Phase: trace.PhaseBegin}))
	assert.False(t, c.Sync(asyncEvent("x", 0, 1)))
}

func TestBlackboxPatterns(t *testing.T) {
	pred, err := BlackboxPatterns(`^https://cdn\.`, `jquery`)
	require.NoError(t, err)
	assert.True(t, pred("https://cdn.example.com/x.js"))
	assert.True(t, pred("https://example.com/jquery.min.js"))
	assert.False(t, pred("https://example.com/app.js"))

	pred, err = BlackboxPatterns()
	require.NoError(t, err)
	assert.Nil(t, pred)

	_, err = BlackboxPatterns("[")
	assert.Error(t, err)
}

func TestClassifierBlackboxCache(t *testing.T) {
	calls := 0
	c := NewClassifier(nil, func(url string) bool {
		calls++
		return url == "lib.js"
	})
	frame := func(url string) *trace.Event {
		return &trace.Event{Name: "f", Payload: trace.JSFrame{URL: url}}
	}
	for i := 0; i < 10; i++ {
		assert.True(t, c.Blackboxed(frame("lib.js")))
		assert.False(t, c.Blackboxed(frame("app.js")))
	}
	assert.Equal(t, 2, calls)
	assert.False(t, c.Blackboxed(frame("")))
	assert.False(t, c.Blackboxed(&trace.Event{Name: "not a frame"}))
	assert.Equal(t, 2, calls)

	c.reset()
	c.Blackboxed(frame("lib.js"))
	assert.Equal(t, 3, calls)
}
