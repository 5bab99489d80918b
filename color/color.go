// Package color implements the Oklab color space and conversions to and from sRGB. Entry and marker colors are
// specified in Oklch so that generated palettes have uniform perceived lightness.
package color

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

type Oklab struct {
	L     float32
	A     float32
	B     float32
	Alpha float32
}

type Oklch struct {
	L float32
	C float32
	H float32
	A float32
}

type RGB struct {
	R float32
	G float32
	B float32
	A float32
}

type SRGB RGB
type LinearSRGB RGB

func (c Oklab) Oklch() Oklch {
	hue := float32(math.Atan2(float64(c.B), float64(c.A))) * (180 / math.Pi)
	if hue < 0 {
		hue += 360
	}
	return Oklch{
		L: c.L,
		C: float32(math.Sqrt(float64(c.A*c.A + c.B*c.B))),
		H: hue,
		A: c.Alpha,
	}
}

func (c Oklch) Oklab() Oklab {
	h := float64(c.H) * (math.Pi / 180)
	return Oklab{
		L:     c.L,
		A:     c.C * float32(math.Cos(h)),
		B:     c.C * float32(math.Sin(h)),
		Alpha: c.A,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Oklch) WithAlpha(alpha float32) Oklch {
	c.A = alpha
	return c
}

func (c Oklab) LinearSRGB() LinearSRGB {
	l_ := float64(c.L + 0.3963377774*c.A + 0.2158037573*c.B)
	m_ := float64(c.L - 0.1055613458*c.A - 0.0638541728*c.B)
	s_ := float64(c.L - 0.0894841775*c.A - 1.2914855480*c.B)

	l := l_ * l_ * l_
	m := m_ * m_ * m_
	s := s_ * s_ * s_

	return LinearSRGB{
		R: float32(+4.0767416621*l - 3.3077115913*m + 0.2309699292*s),
		G: float32(-1.2684380046*l + 2.6097574011*m - 0.3413193965*s),
		B: float32(-0.0041960863*l - 0.7034186147*m + 1.7076147010*s),
		A: c.Alpha,
	}
}

func (c LinearSRGB) Oklab() Oklab {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return Oklab{
		L:     float32(0.2104542553*l + 0.7936177850*m - 0.0040720468*s),
		A:     float32(1.9779984951*l - 2.4285922050*m + 0.4505937099*s),
		B:     float32(0.0259040371*l + 0.7827717662*m - 0.8086757660*s),
		Alpha: c.A,
	}
}

// Clip clamps each channel to [0, 1]. Colors outside of the sRGB gamut lose chroma, which is good enough for
// annotation colors.
func (c LinearSRGB) Clip() LinearSRGB {
	clamp := func(f float32) float32 {
		return float32(math.Min(math.Max(float64(f), 0), 1))
	}
	return LinearSRGB{clamp(c.R), clamp(c.G), clamp(c.B), clamp(c.A)}
}

func (c LinearSRGB) SRGB() SRGB {
	t := func(c float32) float32 {
		cp := float64(c)
		if cp >= 0.0031308 {
			return float32(1.055*math.Pow(cp, 1.0/2.4) - 0.055)
		}
		return float32(12.92 * cp)
	}
	return SRGB{t(c.R), t(c.G), t(c.B), c.A}
}

func (c SRGB) LinearSRGB() LinearSRGB {
	t := func(c float32) float32 {
		cp := float64(c)
		if cp >= 0.04045 {
			return float32(math.Pow((cp+0.055)/(1+0.055), 2.4))
		}
		return float32(cp / 12.92)
	}
	return LinearSRGB{t(c.R), t(c.G), t(c.B), c.A}
}

func (c SRGB) Oklch() Oklch {
	return c.LinearSRGB().Oklab().Oklch()
}

// HTML formats the color as #rrggbbaa.
func (c SRGB) HTML() string {
	round := func(f float32) uint8 {
		return uint8(math.Round(float64(f) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", round(c.R), round(c.G), round(c.B), round(c.A))
}

func (c Oklch) SRGB() SRGB {
	return c.Oklab().LinearSRGB().Clip().SRGB()
}

func (c Oklch) HTML() string {
	return c.SRGB().HTML()
}

func (c Oklch) NRGBA() color.NRGBA {
	s := c.SRGB()
	round := func(f float32) uint8 {
		return uint8(math.Round(math.Min(math.Max(float64(f), 0), 1) * 255))
	}
	return color.NRGBA{round(s.R), round(s.G), round(s.B), round(s.A)}
}

// ParseHex parses colors of the forms #rgb, #rrggbb and #rrggbbaa.
func ParseHex(s string) (Oklch, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Oklch{}, fmt.Errorf("color %q doesn't start with #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Oklch{}, fmt.Errorf("color %q has invalid length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Oklch{}, fmt.Errorf("color %q: %w", s, err)
	}
	channel := func(shift uint) float32 {
		return float32((v>>shift)&0xff) / 255
	}
	return SRGB{channel(24), channel(16), channel(8), channel(0)}.Oklch(), nil
}

// MustParseHex is like ParseHex but panics on invalid input. It is meant for color constants.
func MustParseHex(s string) Oklch {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL returns the sRGB color with hue h in degrees and saturation, lightness and alpha in [0, 1].
func HSL(h, s, l, alpha float32) SRGB {
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	c := (1 - float32(math.Abs(float64(2*l-1)))) * s
	x := c * (1 - float32(math.Abs(math.Mod(float64(h/60), 2)-1)))
	m := l - c/2

	var r, g, b float32
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return SRGB{r + m, g + m, b + m, alpha}
}
