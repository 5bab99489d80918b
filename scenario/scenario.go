// Package scenario loads layout fixtures. A scenario is a YAML description of an already-parsed trace model. Files
// whose names end in .sz are snappy-compressed, using the framing format.
//
// All times are durations relative to the start of the recording, written the way time.ParseDuration expects them,
// for example:
//
//	max: 20ms
//	asyncGroups: [Console]
//	main:
//	  events:
//	    - {name: Task, ph: X, ts: 0s, dur: 10ms, topLevel: true}
//	    - {name: Layout, ph: X, ts: 2ms, dur: 3ms, cat: [devtools.timeline]}
//	    - {name: checkpoint, ph: R, ts: 4ms, mark: TimeStamp, message: here}
//	  async:
//	    Console:
//	      - {name: timer, ph: b, ts: 1ms, dur: 8ms, cat: [blink.console]}
//	frames:
//	  - {ts: 0s, dur: 16ms}
package scenario

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/snappy"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
	"honnef.co/go/tracelayout/container"
	"honnef.co/go/tracelayout/trace"
)

type file struct {
	Min          time.Duration `yaml:"min"`
	Max          time.Duration `yaml:"max"`
	AsyncGroups  []string      `yaml:"asyncGroups"`
	Main         thread        `yaml:"main"`
	Threads      []thread      `yaml:"threads"`
	GPU          []event       `yaml:"gpu"`
	Frames       []frame       `yaml:"frames"`
	Interactions []segment     `yaml:"interactions"`
	Requests     []request     `yaml:"requests"`
}

type thread struct {
	Name   string             `yaml:"name"`
	Events []event            `yaml:"events"`
	Async  map[string][]event `yaml:"async"`
}

type event struct {
	Name     string         `yaml:"name"`
	Cat      []string       `yaml:"cat"`
	Ph       string         `yaml:"ph"`
	Ts       time.Duration  `yaml:"ts"`
	Dur      *time.Duration `yaml:"dur"`
	Self     time.Duration  `yaml:"self"`
	ID       string         `yaml:"id"`
	Warning  string         `yaml:"warning"`
	Steps    []event        `yaml:"steps"`
	Frame    *jsFrame       `yaml:"frame"`
	Step     string         `yaml:"step"`
	Mark     string         `yaml:"mark"`
	Message  string         `yaml:"message"`
	TopLevel bool           `yaml:"topLevel"`
	Details  string         `yaml:"details"`
}

type jsFrame struct {
	Function string `yaml:"function"`
	URL      string `yaml:"url"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
}

type frame struct {
	Ts       time.Duration `yaml:"ts"`
	Dur      time.Duration `yaml:"dur"`
	Idle     bool          `yaml:"idle"`
	Warnings bool          `yaml:"warnings"`
}

type segment struct {
	Begin time.Duration `yaml:"begin"`
	End   time.Duration `yaml:"end"`
	Phase string        `yaml:"phase"`
}

type request struct {
	URL      string        `yaml:"url"`
	Ts       time.Duration `yaml:"ts"`
	End      time.Duration `yaml:"end"`
	Priority string        `yaml:"priority"`
	Children []event       `yaml:"children"`
}

// Load reads the scenario stored in the file at path.
func Load(path string) (*trace.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't load scenario: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".sz") {
		r = snappy.NewReader(r)
	}
	m, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("couldn't load scenario %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a YAML scenario from r.
func Parse(r io.Reader) (*trace.Model, error) {
	var sf file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty document is an empty model.
			return &trace.Model{}, nil
		}
		return nil, fmt.Errorf("couldn't parse scenario: %w", err)
	}
	return sf.model()
}

func (sf *file) model() (*trace.Model, error) {
	m := &trace.Model{
		Min: ts(sf.Min),
		Max: ts(sf.Max),
	}

	groups := map[string]*trace.AsyncGroup{}
	for _, title := range sf.AsyncGroups {
		if _, ok := groups[title]; ok {
			return nil, fmt.Errorf("duplicate async group %q", title)
		}
		g := &trace.AsyncGroup{Title: title}
		groups[title] = g
		m.AsyncGroups = append(m.AsyncGroups, g)
	}

	var err error
	m.Main, err = sf.Main.model(m, groups)
	if err != nil {
		return nil, fmt.Errorf("main thread: %w", err)
	}
	for i := range sf.Threads {
		t, err := sf.Threads[i].model(m, groups)
		if err != nil {
			return nil, fmt.Errorf("thread %q: %w", sf.Threads[i].Name, err)
		}
		m.Threads = append(m.Threads, t)
	}
	if m.GPUTasks, err = events(sf.GPU); err != nil {
		return nil, fmt.Errorf("GPU tasks: %w", err)
	}

	for _, f := range sf.Frames {
		m.Frames = append(m.Frames, &trace.Frame{
			Start:       ts(f.Ts),
			Duration:    f.Dur,
			Idle:        f.Idle,
			HasWarnings: f.Warnings,
		})
	}
	slices.SortStableFunc(m.Frames, func(a, b *trace.Frame) int {
		return cmp.Compare(a.Start, b.Start)
	})

	for _, s := range sf.Interactions {
		if s.End < s.Begin {
			return nil, fmt.Errorf("interaction %q ends before it begins", s.Phase)
		}
		m.Interactions = append(m.Interactions, trace.Segment{Begin: ts(s.Begin), End: ts(s.End), Phase: s.Phase})
	}

	for _, r := range sf.Requests {
		children, err := events(r.Children)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", r.URL, err)
		}
		m.Requests = append(m.Requests, &trace.NetworkRequest{
			URL:      r.URL,
			Start:    ts(r.Ts),
			End:      ts(r.End),
			Priority: trace.ParsePriority(r.Priority),
			Children: children,
		})
	}

	if m.Max == 0 {
		m.Max = lastTimestamp(m)
	}
	if m.Max < m.Min {
		return nil, fmt.Errorf("max %d is before min %d", m.Max, m.Min)
	}
	return m, nil
}

func (t *thread) model(m *trace.Model, groups map[string]*trace.AsyncGroup) (trace.Thread, error) {
	out := trace.Thread{Name: t.Name}
	var err error
	if out.Events, err = events(t.Events); err != nil {
		return trace.Thread{}, err
	}
	if len(t.Async) == 0 {
		return out, nil
	}

	titles := make([]string, 0, len(t.Async))
	for title := range t.Async {
		titles = append(titles, title)
	}
	// Groups that aren't listed explicitly are registered in alphabetical order.
	slices.Sort(titles)
	out.Async = map[*trace.AsyncGroup][]*trace.Event{}
	for _, title := range titles {
		g, ok := groups[title]
		if !ok {
			g = &trace.AsyncGroup{Title: title}
			groups[title] = g
			m.AsyncGroups = append(m.AsyncGroups, g)
		}
		evs, err := events(t.Async[title])
		if err != nil {
			return trace.Thread{}, fmt.Errorf("async group %q: %w", title, err)
		}
		out.Async[g] = evs
	}
	return out, nil
}

func events(in []event) ([]*trace.Event, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*trace.Event, 0, len(in))
	for i := range in {
		ev, err := in[i].model()
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, in[i].Name, err)
		}
		out = append(out, ev)
	}
	trace.SortEvents(out)
	return out, nil
}

func (e *event) model() (*trace.Event, error) {
	ph, err := trace.ParsePhase(e.Ph)
	if err != nil {
		return nil, err
	}
	ev := &trace.Event{
		Name:       e.Name,
		Categories: e.Cat,
		Phase:      ph,
		Start:      ts(e.Ts),
		ID:         e.ID,
		SelfTime:   e.Self,
		Warning:    e.Warning,
	}
	if e.Dur != nil {
		if *e.Dur < 0 {
			return nil, fmt.Errorf("negative duration %s", *e.Dur)
		}
		ev.End = container.Some(ev.Start.Add(*e.Dur))
	}
	if ev.Payload, err = e.payload(); err != nil {
		return nil, err
	}

	for i := range e.Steps {
		step, err := e.Steps[i].model()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if i > 0 && step.Start < ev.Steps[i-1].Start {
			return nil, fmt.Errorf("step %d starts before its predecessor", i)
		}
		ev.Steps = append(ev.Steps, step)
	}
	return ev, nil
}

func (e *event) payload() (trace.Payload, error) {
	var pls []trace.Payload
	if e.Frame != nil {
		pls = append(pls, trace.JSFrame{
			FunctionName: e.Frame.Function,
			URL:          e.Frame.URL,
			Line:         e.Frame.Line,
			Column:       e.Frame.Column,
		})
	}
	if e.Step != "" {
		pls = append(pls, trace.AsyncStep{Step: e.Step})
	}
	if e.Mark != "" {
		k, err := trace.ParseMarkKind(e.Mark)
		if err != nil {
			return nil, err
		}
		pls = append(pls, trace.Mark{Kind: k, Message: e.Message})
	} else if e.Message != "" {
		return nil, errors.New("message without mark")
	}
	if e.TopLevel {
		pls = append(pls, trace.TopLevel{})
	}
	if e.Details != "" {
		pls = append(pls, trace.Details{Text: e.Details})
	}

	switch len(pls) {
	case 0:
		return nil, nil
	case 1:
		return pls[0], nil
	default:
		return nil, fmt.Errorf("event has %d payloads, expected at most one", len(pls))
	}
}

func ts(d time.Duration) trace.Timestamp { return trace.Timestamp(d) }

// lastTimestamp returns the latest point in time covered by anything in m.
func lastTimestamp(m *trace.Model) trace.Timestamp {
	var last trace.Timestamp
	see := func(t trace.Timestamp) {
		if t > last {
			last = t
		}
	}
	seeEvents := func(evs []*trace.Event) {
		for _, ev := range evs {
			see(ev.Start)
			if end, ok := ev.End.Get(); ok {
				see(end)
			}
			for _, step := range ev.Steps {
				see(step.Start)
			}
		}
	}
	seeThread := func(t *trace.Thread) {
		seeEvents(t.Events)
		for _, evs := range t.Async {
			seeEvents(evs)
		}
	}

	seeThread(&m.Main)
	for i := range m.Threads {
		seeThread(&m.Threads[i])
	}
	seeEvents(m.GPUTasks)
	for _, f := range m.Frames {
		see(f.End())
	}
	for _, s := range m.Interactions {
		see(s.End)
	}
	for _, r := range m.Requests {
		see(r.End)
	}
	return last
}
