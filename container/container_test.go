package container

import "testing"

func TestOption(t *testing.T) {
	var none Option[int]
	if none.Set() {
		t.Errorf("zero Option is set")
	}
	if got := none.GetOr(7); got != 7 {
		t.Errorf("none.GetOr(7)=%d, want 7", got)
	}
	if s := none.String(); s != "None" {
		t.Errorf("none.String()=%q, want %q", s, "None")
	}

	some := Some(3)
	if v, ok := some.Get(); !ok || v != 3 {
		t.Errorf("some.Get()=(%d, %t), want (3, true)", v, ok)
	}
	if got := some.MustGet(); got != 3 {
		t.Errorf("some.MustGet()=%d, want 3", got)
	}
}

func TestOptionMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustGet on None didn't panic")
		}
	}()
	None[string]().MustGet()
}

func TestSet(t *testing.T) {
	set := NewSet("a", "b")
	if !set.Has("a") || !set.Has("b") {
		t.Errorf("set=%v, want a and b", set)
	}
	set.Delete("a")
	if set.Has("a") {
		t.Errorf("set still has a after Delete")
	}
	set.Add("c")
	if len(set) != 2 {
		t.Errorf("len(set)=%d, want 2", len(set))
	}
}
