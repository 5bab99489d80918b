package timeline

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/container"
	"honnef.co/go/tracelayout/f32color"
	"honnef.co/go/tracelayout/tinylfu"
	"honnef.co/go/tracelayout/trace"
)

// ThreadProvider lays out frames, interaction records, and the synchronous and async events of all threads.
//
// From top to bottom, the layout consists of a level of frames, a level of interaction records, the main thread,
// all other threads and GPU tasks. Each thread starts with its async groups, followed by its synchronous events.
// Non-empty threads are followed by an empty level.
type ThreadProvider struct {
	model      *trace.Model
	cfg        Config
	log        logrus.FieldLogger
	classifier *Classifier

	layout  *Layout
	markers Markers
	flows   flowTable
	sync    stackAllocator
	async   firstFitAllocator
	// Events that are the outermost of a chain of blackboxed frames.
	blackboxRoots container.Set[*trace.Event]
	sel           selector

	minimum      trace.Timestamp
	span         time.Duration
	currentLevel int

	asyncColors   *tinylfu.T[string, color.Oklch]
	consoleColors *ColorGenerator
}

// NewThreadProvider returns a provider for m. It fails if cfg contains invalid blackbox patterns.
func NewThreadProvider(m *trace.Model, cfg Config) (*ThreadProvider, error) {
	c, err := cfg.classifier()
	if err != nil {
		return nil, err
	}
	p := &ThreadProvider{
		model:         m,
		cfg:           cfg,
		log:           cfg.logger("thread"),
		classifier:    c,
		blackboxRoots: container.NewSet[*trace.Event](),
		asyncColors:   tinylfu.New[string, color.Oklch](64, 640),
		consoleColors: newConsoleColorGenerator(),
	}
	return p, nil
}

func (p *ThreadProvider) Reset() {
	p.layout = nil
	p.markers.Reset()
	p.flows.reset()
	p.sync.reset()
	p.async.reset()
	clear(p.blackboxRoots)
	p.sel.reset()
	p.classifier.reset()
	p.asyncColors.Purge()
	p.currentLevel = 0
}

func (p *ThreadProvider) BuildLayout() *Layout {
	if p.layout != nil {
		return p.layout
	}
	t := time.Now()

	m := p.model
	p.layout = &Layout{}
	p.minimum = m.Min
	p.span = timeSpan(m)
	p.currentLevel = 0

	p.appendFrames()
	p.appendInteractionRecords()
	p.appendThread(local.Sprintf("Main Thread"), &m.Main)
	for i := range m.Threads {
		p.appendThread(m.Threads[i].Name, &m.Threads[i])
	}
	if p.cfg.GPUTimeline {
		p.appendSyncEvents(local.Sprintf("GPU"), m.GPUTasks)
	}

	p.layout.Markers = p.markers.Finalize()
	p.layout.Flows = p.flows.flows
	// Flows that are still open can't be continued by a later pass.
	clear(p.flows.open)

	p.cfg.Metrics.observe("thread", time.Since(t), p.layout, p.currentLevel)
	p.log.WithFields(logrus.Fields{
		"entries": p.layout.Entries.Len(),
		"levels":  p.currentLevel,
		"markers": len(p.layout.Markers),
		"flows":   len(p.layout.Flows),
	}).Debug("built layout")
	return p.layout
}

func (p *ThreadProvider) MinimumBoundary() trace.Timestamp {
	p.BuildLayout()
	return p.minimum
}

func (p *ThreadProvider) TotalTime() time.Duration {
	p.BuildLayout()
	return p.span
}

func (p *ThreadProvider) MaxStackDepth() int {
	p.BuildLayout()
	return p.currentLevel
}

func (p *ThreadProvider) appendThread(title string, thread *trace.Thread) {
	first := p.currentLevel
	p.appendAsyncEvents(thread.Async)
	p.appendSyncEvents(title, thread.Events)
	if p.currentLevel != first {
		// Separate threads by an empty level.
		p.currentLevel++
	}
}

func (p *ThreadProvider) appendFrames() {
	level := p.currentLevel
	p.layout.setLevelKinds(level, 1, EntryFrame)
	p.layout.Groups = append(p.layout.Groups, Group{Title: local.Sprintf("Frames"), StartLevel: level, Expanded: true})
	for _, f := range p.model.Frames {
		p.markers.Add(Marker{Start: f.Start, Offset: f.Start.Sub(p.model.Min), Style: frameMarkerStyle})
		p.layout.Entries.Append(Entry{
			Kind:     EntryFrame,
			Level:    level,
			Start:    f.Start,
			Duration: f.Duration,
			Title:    roundDuration(f.Duration).String(),
			Frame:    f,
		})
	}
	// The frames level is reserved even if there are no frames.
	p.currentLevel++
}

func (p *ThreadProvider) appendInteractionRecords() {
	segs := p.model.Interactions
	if len(segs) == 0 {
		return
	}
	level := p.currentLevel
	p.layout.setLevelKinds(level, 1, EntryInteractionRecord)
	p.layout.Groups = append(p.layout.Groups, Group{Title: local.Sprintf("Interactions"), StartLevel: level, Expanded: true})
	for i := range segs {
		seg := &segs[i]
		p.layout.Entries.Append(Entry{
			Kind:     EntryInteractionRecord,
			Level:    level,
			Start:    seg.Begin,
			Duration: seg.End.Sub(seg.Begin),
			Title:    seg.Phase,
			Segment:  seg,
		})
	}
	p.currentLevel++
}

// appendHeader starts a new group at the current level. Unless groups are collapsible, the group's title occupies
// a level of its own.
func (p *ThreadProvider) appendHeader(title string) {
	p.layout.Groups = append(p.layout.Groups, Group{Title: title, StartLevel: p.currentLevel, Expanded: true})
	if p.cfg.CollapsibleGroups {
		return
	}
	p.layout.Entries.Append(Entry{
		Kind:     EntryHeader,
		Level:    p.currentLevel,
		Start:    p.minimum,
		Duration: p.span,
		Title:    title,
	})
	p.layout.setLevelKinds(p.currentLevel, 1, EntryHeader)
	p.currentLevel++
}

func (p *ThreadProvider) appendSyncEvents(header string, events []*trace.Event) {
	p.sync.reset()
	for _, ev := range events {
		if mark, ok := ev.Payload.(trace.Mark); ok {
			p.markers.Add(Marker{Start: ev.Start, Offset: ev.Start.Sub(p.model.Min), Style: markerStyleForEvent(ev, mark)})
		}

		if ev.Phase.IsFlow() {
			if p.cfg.FlowEvents {
				p.sync.close(ev.Start)
				if header != "" {
					p.appendHeader(header)
					header = ""
				}
				p.flows.add(ev, p.currentLevel+p.sync.attach(), p.log)
			}
			continue
		}
		if !p.classifier.Sync(ev) {
			continue
		}

		p.sync.close(ev.Start)
		if p.cfg.Blackboxing && p.classifier.Blackboxed(ev) {
			if parent := p.sync.parent(); parent != nil && p.blackboxRoots.Has(parent) {
				continue
			}
			p.blackboxRoots.Add(ev)
		}
		if header != "" {
			p.appendHeader(header)
			header = ""
		}

		level := p.currentLevel + p.sync.place(ev)
		p.appendEvent(ev, level)
	}
	p.layout.setLevelKinds(p.currentLevel, p.sync.maxDepth, EntryEvent)
	p.currentLevel += p.sync.maxDepth
}

func (p *ThreadProvider) appendAsyncEvents(async map[*trace.AsyncGroup][]*trace.Event) {
	if len(async) == 0 {
		return
	}
	// Groups are laid out in registry order, not map order.
	for _, g := range p.model.AsyncGroups {
		if events := async[g]; len(events) != 0 {
			p.appendAsyncGroup(g.Title, events)
		}
	}
}

func (p *ThreadProvider) appendAsyncGroup(header string, events []*trace.Event) {
	p.async.reset()
	headerAppended := false
	for _, ev := range events {
		if !p.classifier.Visible(ev) {
			continue
		}
		if !headerAppended {
			p.appendHeader(header)
			headerAppended = true
		}
		level := p.async.place(ev.Start, asyncEnd(ev))
		p.appendAsyncEvent(ev, p.currentLevel+level)
	}
	p.layout.setLevelKinds(p.currentLevel, p.async.levels(), EntryEvent)
	p.currentLevel += p.async.levels()
}

func (p *ThreadProvider) appendAsyncEvent(ev *trace.Event, level int) {
	if ev.Phase.IsNestableAsync() || len(ev.Steps) < 2 {
		p.appendEvent(ev, level)
		return
	}
	// If the event has past steps, each range is represented by the step that ends it.
	offset := 0
	if ev.Steps[1].Phase == trace.PhaseAsyncStepPast {
		offset = 1
	}
	for i := 0; i < len(ev.Steps)-1; i++ {
		start := ev.Steps[i].Start
		p.layout.Entries.Append(Entry{
			Kind:     EntryEvent,
			Level:    level,
			Start:    start,
			Duration: ev.Steps[i+1].Start.Sub(start),
			Event:    ev.Steps[i+offset],
		})
	}
}

func (p *ThreadProvider) appendEvent(ev *trace.Event, level int) {
	p.layout.Entries.Append(Entry{
		Kind:     EntryEvent,
		Level:    level,
		Start:    ev.Start,
		Duration: visibleDuration(ev),
		Event:    ev,
	})
}

// IsBlackboxRoot reports whether ev was laid out in place of a chain of blackboxed frames.
func (p *ThreadProvider) IsBlackboxRoot(ev *trace.Event) bool {
	p.BuildLayout()
	return p.blackboxRoots.Has(ev)
}

func (p *ThreadProvider) EntryTitle(idx int) string {
	l := p.BuildLayout()
	if !l.Entries.inRange(idx) {
		title := local.Sprintf("Unexpected entry index %d", idx)
		p.log.Error(title)
		return title
	}
	e := l.Entries.At(idx)
	if e.Kind != EntryEvent {
		return e.Title
	}

	ev := e.Event
	if step, ok := ev.Payload.(trace.AsyncStep); ok &&
		(ev.Phase == trace.PhaseAsyncStepInto || ev.Phase == trace.PhaseAsyncStepPast) {
		return local.Sprintf("%s:%s", ev.Name, step.Step)
	}
	if p.blackboxRoots.Has(ev) {
		return local.Sprintf("Blackboxed")
	}
	details := eventDetails(ev)
	switch {
	case details == "":
		return ev.Name
	case isJSFrame(ev):
		return details
	default:
		return local.Sprintf("%s (%s)", ev.Name, details)
	}
}

func isJSFrame(ev *trace.Event) bool {
	_, ok := ev.Payload.(trace.JSFrame)
	return ok
}

func eventDetails(ev *trace.Event) string {
	switch pl := ev.Payload.(type) {
	case trace.JSFrame:
		if pl.FunctionName == "" {
			return local.Sprintf("(anonymous)")
		}
		return pl.FunctionName
	case trace.Details:
		return pl.Text
	case trace.Mark:
		return pl.Message
	default:
		return ""
	}
}

func (p *ThreadProvider) EntryColor(idx int) color.Oklch {
	l := p.BuildLayout()
	e := l.Entries.At(idx)
	switch e.Kind {
	case EntryEvent:
		ev := e.Event
		if !ev.Phase.IsAsync() {
			return categoryColor(eventCategory(ev))
		}
		if ev.HasCategory(CategoryConsole) || ev.HasCategory(CategoryUserTiming) {
			return p.consoleColors.ColorForID(ev.Name)
		}
		return p.asyncColors.GetOrCompute(eventCategory(ev), func(cat string) color.Oklch {
			return f32color.MulAlpha(categoryColor(cat), 0.7)
		})
	case EntryFrame:
		return colors[colorFrame]
	case EntryHeader:
		return colors[colorHeader]
	case EntryInteractionRecord:
		return interactionColor(e.Segment.Phase)
	default:
		panic("unreachable")
	}
}

func (p *ThreadProvider) TextColor(idx int) color.Oklch {
	l := p.BuildLayout()
	if e := l.Entries.At(idx); e.Kind == EntryEvent && p.blackboxRoots.Has(e.Event) {
		return colors[colorTextBlackboxed]
	}
	return colors[colorText]
}

func (p *ThreadProvider) HighlightTimeRange(idx int) (trace.Timestamp, trace.Timestamp) {
	e := p.BuildLayout().Entries.At(idx)
	return e.Start, e.End()
}

func (p *ThreadProvider) EntryInfo(idx int) (EntryInfo, bool) {
	e := p.BuildLayout().Entries.At(idx)
	switch e.Kind {
	case EntryEvent:
		ev := e.Event
		total := ev.Duration()
		self := ev.SelfTime
		info := EntryInfo{
			Title:   p.EntryTitle(idx),
			Warning: ev.Warning,
		}
		if self > 0 && self != total {
			info.Time = local.Sprintf("%s (self %s)", roundDuration(total), roundDuration(self))
		} else {
			info.Time = roundDuration(total).String()
		}
		return info, true
	case EntryFrame:
		f := e.Frame
		info := EntryInfo{Title: local.Sprintf("Frame")}
		if f.Idle {
			info.Title = local.Sprintf("Idle Frame")
		}
		fps := math.Inf(1)
		if f.Duration > 0 {
			fps = float64(time.Second) / float64(f.Duration)
		}
		info.Time = local.Sprintf("%s ~ %.0f fps", roundDuration(f.Duration), fps)
		if f.HasWarnings {
			info.Warning = local.Sprintf("Long frame")
		}
		return info, true
	default:
		return EntryInfo{}, false
	}
}

func (p *ThreadProvider) ForceDecoration(idx int) bool {
	e := p.BuildLayout().Entries.At(idx)
	switch e.Kind {
	case EntryFrame:
		return true
	case EntryEvent:
		return e.Event.Warning != ""
	default:
		return false
	}
}

func (p *ThreadProvider) CreateSelection(idx int) Selection {
	l := p.BuildLayout()
	if !l.Entries.inRange(idx) {
		return nil
	}
	var sel Selection
	switch e := l.Entries.At(idx); e.Kind {
	case EntryEvent:
		sel = EventSelection{Event: e.Event}
	case EntryFrame:
		sel = FrameSelection{Frame: e.Frame}
	default:
		return nil
	}
	p.sel.remember(sel, idx)
	return sel
}

func (p *ThreadProvider) IndexForSelection(sel Selection) int {
	if sel == nil {
		return -1
	}
	if _, ok := sel.(RangeSelection); ok {
		return -1
	}
	l := p.BuildLayout()
	return p.sel.lookup(sel, l.Entries.find)
}
