// SPDX-License-Identifier: Unlicense OR MIT

package f32color

import (
	"math"
	"testing"

	"honnef.co/go/tracelayout/color"
)

func TestDisabled(t *testing.T) {
	c := color.Oklch{L: 0.5, C: 0.2, H: 120, A: 1}
	d := Disabled(c)
	if d.C >= c.C {
		t.Errorf("Disabled didn't desaturate: C=%f, want < %f", d.C, c.C)
	}
	if d.A >= c.A {
		t.Errorf("Disabled didn't reduce alpha: A=%f, want < %f", d.A, c.A)
	}
	if math.Abs(float64(d.L-c.L)) > 1e-6 {
		t.Errorf("Disabled changed lightness: L=%f, want %f", d.L, c.L)
	}
}

func TestMulAlpha(t *testing.T) {
	if got := MulAlpha(color.Oklch{A: 0.5}, 0.5).A; got != 0.25 {
		t.Errorf("MulAlpha(0.5, 0.5)=%f, want 0.25", got)
	}
}
