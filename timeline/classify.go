package timeline

import (
	"fmt"
	"regexp"
	"strings"

	"honnef.co/go/tracelayout/container"
	"honnef.co/go/tracelayout/tinylfu"
	"honnef.co/go/tracelayout/trace"
)

// A Filter decides whether an event should occupy a row.
type Filter interface {
	Accept(ev *trace.Event) bool
}

type FilterFunc func(ev *trace.Event) bool

func (fn FilterFunc) Accept(ev *trace.Event) bool { return fn(ev) }

// VisibleEventsFilter accepts events whose names are in a fixed set. An empty set accepts all events.
type VisibleEventsFilter struct {
	names container.Set[string]
}

func NewVisibleEventsFilter(names ...string) VisibleEventsFilter {
	return VisibleEventsFilter{names: container.NewSet(names...)}
}

func (f VisibleEventsFilter) Accept(ev *trace.Event) bool {
	return len(f.names) == 0 || f.names.Has(ev.Name)
}

// ExcludeTopLevelFilter rejects container events that wrap all other work.
type ExcludeTopLevelFilter struct{}

func (ExcludeTopLevelFilter) Accept(ev *trace.Event) bool {
	_, ok := ev.Payload.(trace.TopLevel)
	return !ok
}

// BlackboxPredicate reports whether a script URL is excluded from attribution.
type BlackboxPredicate func(url string) bool

// BlackboxPatterns returns a predicate matching URLs against any of the regular expressions.
func BlackboxPatterns(patterns ...string) (BlackboxPredicate, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, fmt.Errorf("invalid blackbox pattern %q: %w", p, err)
		}
	}
	// Individual patterns compiled fine, so the alternation will, too.
	re := regexp.MustCompile("(?:" + strings.Join(patterns, ")|(?:") + ")")
	return re.MatchString, nil
}

// Classifier decides which events take part in a layout pass.
type Classifier struct {
	filters  []Filter
	blackbox BlackboxPredicate
	// Memoized results of blackbox, keyed by URL.
	blackboxed *tinylfu.T[string, bool]
}

func NewClassifier(filters []Filter, blackbox BlackboxPredicate) *Classifier {
	return &Classifier{
		filters:    filters,
		blackbox:   blackbox,
		blackboxed: tinylfu.New[string, bool](4096, 40960),
	}
}

// Visible reports whether all filters accept ev.
func (c *Classifier) Visible(ev *trace.Event) bool {
	for _, f := range c.filters {
		if !f.Accept(ev) {
			return false
		}
	}
	return true
}

// Sync reports whether a non-flow event occupies a row in the synchronous pass. Events that didn't end are only
// laid out if they're instant events, and async events are left to the async pass.
func (c *Classifier) Sync(ev *trace.Event) bool {
	if !ev.End.Set() && ev.Phase != trace.PhaseInstant {
		return false
	}
	if ev.Phase.IsAsync() {
		return false
	}
	return c.Visible(ev)
}

// Blackboxed reports whether ev is a script frame whose URL is blackboxed.
func (c *Classifier) Blackboxed(ev *trace.Event) bool {
	if c.blackbox == nil {
		return false
	}
	frame, ok := ev.Payload.(trace.JSFrame)
	if !ok || frame.URL == "" {
		return false
	}
	return c.blackboxed.GetOrCompute(frame.URL, c.blackbox)
}

func (c *Classifier) reset() {
	c.blackboxed.Purge()
}
