package timeline

import (
	"github.com/cespare/xxhash/v2"
	"honnef.co/go/stuff/math/mathutil"
	"honnef.co/go/tracelayout/color"
	"honnef.co/go/tracelayout/tinylfu"
	"honnef.co/go/tracelayout/trace"
)

var colors = [...]color.Oklch{
	colorCategoryLoading:   color.MustParseHex("#8cb4ed"),
	colorCategoryScripting: color.MustParseHex("#f4d47a"),
	colorCategoryRendering: color.MustParseHex("#b19aec"),
	colorCategoryPainting:  color.MustParseHex("#90c285"),
	colorCategoryGPU:       color.MustParseHex("#77b06b"),
	colorCategoryOther:     color.MustParseHex("#dedede"),
	colorCategoryIdle:      color.MustParseHex("#fafafa"),

	colorHeader:         color.MustParseHex("#aaa"),
	colorFrame:          color.MustParseHex("#fff"),
	colorText:           color.MustParseHex("#333"),
	colorTextBlackboxed: color.MustParseHex("#888"),

	colorInteractionResponse:      color.MustParseHex("#f0c046"),
	colorInteractionScroll:        color.MustParseHex("#a58ae6"),
	colorInteractionUncategorized: color.MustParseHex("#dedede"),

	colorPriorityVeryLow:  color.MustParseHex("#080"),
	colorPriorityLow:      color.MustParseHex("#6c0"),
	colorPriorityMedium:   color.MustParseHex("#fa0"),
	colorPriorityHigh:     color.MustParseHex("#f60"),
	colorPriorityVeryHigh: color.MustParseHex("#f00"),

	colorMarkerFrame:      color.MustParseHex("#64646466"),
	colorMarkerTimeStamp:  color.MustParseHex("#ffb217"),
	colorMarkerDOMContent: color.MustParseHex("#00f"),
	colorMarkerLoad:       color.MustParseHex("#f00"),
	colorMarkerFirstPaint: color.MustParseHex("#008200"),
}

type colorIndex uint8

const (
	colorCategoryLoading colorIndex = iota
	colorCategoryScripting
	colorCategoryRendering
	colorCategoryPainting
	colorCategoryGPU
	colorCategoryOther
	colorCategoryIdle

	colorHeader
	colorFrame
	colorText
	colorTextBlackboxed

	colorInteractionResponse
	colorInteractionScroll
	colorInteractionUncategorized

	colorPriorityVeryLow
	colorPriorityLow
	colorPriorityMedium
	colorPriorityHigh
	colorPriorityVeryHigh

	colorMarkerFrame
	colorMarkerTimeStamp
	colorMarkerDOMContent
	colorMarkerLoad
	colorMarkerFirstPaint
)

// Well-known event categories.
const (
	CategoryLoading    = "loading"
	CategoryScripting  = "scripting"
	CategoryRendering  = "rendering"
	CategoryPainting   = "painting"
	CategoryGPU        = "gpu"
	CategoryOther      = "other"
	CategoryIdle       = "idle"
	CategoryConsole    = "blink.console"
	CategoryUserTiming = "blink.user_timing"
)

var categoryColors = map[string]colorIndex{
	CategoryLoading:   colorCategoryLoading,
	CategoryScripting: colorCategoryScripting,
	CategoryRendering: colorCategoryRendering,
	CategoryPainting:  colorCategoryPainting,
	CategoryGPU:       colorCategoryGPU,
	CategoryOther:     colorCategoryOther,
	CategoryIdle:      colorCategoryIdle,
}

// eventCategory returns the first of the event's categories that has a color, or CategoryOther.
func eventCategory(ev *trace.Event) string {
	for _, cat := range ev.Categories {
		if _, ok := categoryColors[cat]; ok {
			return cat
		}
	}
	return CategoryOther
}

func categoryColor(cat string) color.Oklch {
	idx, ok := categoryColors[cat]
	if !ok {
		idx = colorCategoryOther
	}
	return colors[idx]
}

func interactionColor(phase string) color.Oklch {
	switch phase {
	case "Response":
		return colors[colorInteractionResponse]
	case "Scroll", "Fling", "Drag", "Animation":
		return colors[colorInteractionScroll]
	default:
		return colors[colorInteractionUncategorized]
	}
}

func priorityColor(p trace.Priority) (color.Oklch, bool) {
	switch p {
	case trace.PriorityVeryLow:
		return colors[colorPriorityVeryLow], true
	case trace.PriorityLow:
		return colors[colorPriorityLow], true
	case trace.PriorityMedium:
		return colors[colorPriorityMedium], true
	case trace.PriorityHigh:
		return colors[colorPriorityHigh], true
	case trace.PriorityVeryHigh:
		return colors[colorPriorityVeryHigh], true
	default:
		return color.Oklch{}, false
	}
}

// ColorSpace is a range of values a color component may take. A Count of zero makes every integer in [Min, Max]
// available.
type ColorSpace struct {
	Min   float64
	Max   float64
	Count int
}

func (space ColorSpace) value(idx uint32) float64 {
	count := space.Count
	if count == 0 {
		count = int(space.Max-space.Min) + 1
	}
	if count < 2 {
		return space.Min
	}
	i := int(idx % uint32(count))
	return mathutil.Lerp(space.Min, space.Max, float64(i)/float64(count-1))
}

// ColorGenerator deterministically maps IDs to colors, so that events with the same name share a color across
// layout passes. Generated colors are memoized.
type ColorGenerator struct {
	hue        ColorSpace
	saturation ColorSpace
	lightness  float64
	alpha      float32

	cache *tinylfu.T[string, color.Oklch]
}

// NewColorGenerator returns a generator of HSL colors. Saturation and lightness are percentages.
func NewColorGenerator(hue, saturation ColorSpace, lightness float64, alpha float32) *ColorGenerator {
	return &ColorGenerator{
		hue:        hue,
		saturation: saturation,
		lightness:  lightness,
		alpha:      alpha,
		cache:      tinylfu.New[string, color.Oklch](1024, 10240),
	}
}

func newConsoleColorGenerator() *ColorGenerator {
	return NewColorGenerator(ColorSpace{Min: 30, Max: 55}, ColorSpace{Min: 70, Max: 100, Count: 6}, 50, 0.7)
}

func (g *ColorGenerator) ColorForID(id string) color.Oklch {
	return g.cache.GetOrCompute(id, g.generate)
}

func (g *ColorGenerator) generate(id string) color.Oklch {
	h := xxhash.Sum64String(id)
	hue := g.hue.value(uint32(h))
	sat := g.saturation.value(uint32(h >> 32))
	return color.HSL(float32(hue), float32(sat/100), float32(g.lightness/100), g.alpha).Oklch()
}
