package timeline

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/container"
	"honnef.co/go/tracelayout/f32color"
	"honnef.co/go/tracelayout/trace"
)

const maxURLChars = 80

type window struct {
	start trace.Timestamp
	end   trace.Timestamp
}

// NetworkProvider lays out network requests, one entry per request in model order. Requests that overlap their
// predecessor move to a new level. Entries on the same level may overlap.
type NetworkProvider struct {
	model *trace.Model
	cfg   Config
	log   logrus.FieldLogger

	layout *Layout
	// The visible time window. Unset means everything is visible.
	window       container.Option[window]
	sel          selector
	minimum      trace.Timestamp
	span         time.Duration
	currentLevel int
}

func NewNetworkProvider(m *trace.Model, cfg Config) *NetworkProvider {
	return &NetworkProvider{
		model: m,
		cfg:   cfg,
		log:   cfg.logger("network"),
	}
}

func (p *NetworkProvider) Reset() {
	p.layout = nil
	p.sel.reset()
	p.currentLevel = 0
}

func (p *NetworkProvider) BuildLayout() *Layout {
	if p.layout != nil {
		return p.layout
	}
	t := time.Now()

	p.layout = &Layout{}
	p.minimum = p.model.Min
	p.span = timeSpan(p.model)
	for i, r := range p.model.Requests {
		p.layout.Entries.Append(Entry{
			Kind:     EntryNetworkRequest,
			Level:    i,
			Start:    r.Start,
			Duration: r.End.Sub(r.Start),
			Title:    r.URL,
			Request:  r,
		})
	}
	p.updateLevels()

	p.cfg.Metrics.observe("network", time.Since(t), p.layout, p.currentLevel)
	p.log.WithFields(logrus.Fields{
		"entries": p.layout.Entries.Len(),
		"levels":  p.currentLevel,
	}).Debug("built layout")
	return p.layout
}

// SetWindowTimes sets the visible time window and recomputes the levels of an existing layout.
func (p *NetworkProvider) SetWindowTimes(start, end trace.Timestamp) {
	p.window = container.Some(window{start, end})
	p.updateLevels()
}

// updateLevels assigns levels to visible requests, starting a new level whenever a request starts before the
// previous visible request ended. Invisible requests are parked on the level after the last one, which isn't
// counted by MaxStackDepth.
func (p *NetworkProvider) updateLevels() {
	if p.layout == nil {
		return
	}
	es := &p.layout.Entries
	win, windowed := p.window.Get()

	level := -1
	lastTime := trace.Timestamp(math.MaxInt64)
	for i := 0; i < es.Len(); i++ {
		r := es.At(i).Request
		if windowed && !(r.Start < win.end && r.End > win.start) {
			es.setLevel(i, -1)
			continue
		}
		if lastTime > r.Start {
			level++
		}
		lastTime = r.End
		es.setLevel(i, level)
	}
	level++
	for i := 0; i < es.Len(); i++ {
		if es.Level(i) == -1 {
			es.setLevel(i, level)
		}
	}
	p.currentLevel = level
	p.layout.levels = p.layout.levels[:0]
	p.layout.setLevelKinds(0, level+1, EntryNetworkRequest)
	p.layout.invalidateIndex()
}

func (p *NetworkProvider) MinimumBoundary() trace.Timestamp {
	p.BuildLayout()
	return p.minimum
}

func (p *NetworkProvider) TotalTime() time.Duration {
	p.BuildLayout()
	return p.span
}

func (p *NetworkProvider) MaxStackDepth() int {
	p.BuildLayout()
	return p.currentLevel
}

func (p *NetworkProvider) EntryTitle(idx int) string {
	return p.BuildLayout().Entries.At(idx).Request.URL
}

func (p *NetworkProvider) EntryColor(idx int) color.Oklch {
	e := p.BuildLayout().Entries.At(idx)
	c, ok := priorityColor(e.Request.Priority)
	if !ok {
		c = colors[colorCategoryLoading]
	}
	if p.parked(e.Level) {
		return f32color.Disabled(c)
	}
	return c
}

// parked reports whether level holds the requests outside of the window.
func (p *NetworkProvider) parked(level int) bool {
	return p.window.Set() && level == p.currentLevel
}

func (p *NetworkProvider) TextColor(idx int) color.Oklch {
	return colors[colorText]
}

func (p *NetworkProvider) HighlightTimeRange(idx int) (trace.Timestamp, trace.Timestamp) {
	e := p.BuildLayout().Entries.At(idx)
	return e.Start, e.End()
}

func (p *NetworkProvider) EntryInfo(idx int) (EntryInfo, bool) {
	r := p.BuildLayout().Entries.At(idx).Request
	if r.URL == "" {
		return EntryInfo{}, false
	}
	info := EntryInfo{
		Title:    trimMiddle(r.URL, maxURLChars),
		Priority: r.Priority.String(),
	}
	if r.End >= r.Start {
		info.Time = roundDuration(r.End.Sub(r.Start)).String()
	}
	return info, true
}

func (p *NetworkProvider) ForceDecoration(idx int) bool {
	return true
}

func (p *NetworkProvider) CreateSelection(idx int) Selection {
	l := p.BuildLayout()
	if !l.Entries.inRange(idx) {
		return nil
	}
	sel := NetworkRequestSelection{Request: l.Entries.At(idx).Request}
	p.sel.remember(sel, idx)
	return sel
}

func (p *NetworkProvider) IndexForSelection(sel Selection) int {
	if sel == nil {
		return -1
	}
	if idx, ok := p.sel.cached(sel); ok {
		return idx
	}
	if _, ok := sel.(NetworkRequestSelection); !ok {
		return -1
	}
	l := p.BuildLayout()
	return p.sel.lookup(sel, l.Entries.find)
}
