package slices

import "testing"

func TestPop(t *testing.T) {
	s := []int{1, 2}
	e, s, ok := Pop(s)
	if !ok || e != 2 || len(s) != 1 {
		t.Errorf("Pop=(%d, %v, %t), want (2, [1], true)", e, s, ok)
	}
	_, s, _ = Pop(s)
	if _, _, ok := Pop(s); ok {
		t.Errorf("Pop on empty slice returned ok")
	}
}

func TestLast(t *testing.T) {
	if Last([]int(nil)) != nil {
		t.Errorf("Last(nil) != nil")
	}
	s := []int{1, 2, 3}
	*Last(s) = 4
	if s[2] != 4 {
		t.Errorf("s[2]=%d, want 4", s[2])
	}
}
