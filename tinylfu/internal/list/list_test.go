package list

import "testing"

func values(l *List[int]) []int {
	var out []int
	for e := l.Front(); e != nil && e != &l.root; e = e.next {
		out = append(out, e.Value)
	}
	return out
}

func TestList(t *testing.T) {
	l := New[int]()
	if l.Front() != nil || l.Back() != nil {
		t.Fatalf("empty list has elements")
	}
	e1 := l.PushFront(1)
	l.PushFront(2)
	e3 := l.PushFront(3)
	if got := values(l); len(got) != 3 || got[0] != 3 || got[2] != 1 {
		t.Errorf("values=%v, want [3 2 1]", got)
	}
	l.MoveToFront(e1)
	if l.Front() != e1 || l.Back().Value != 2 {
		t.Errorf("after MoveToFront: front=%d back=%d, want 1 and 2", l.Front().Value, l.Back().Value)
	}
	if v := l.Remove(e3); v != 3 || l.Len() != 2 {
		t.Errorf("Remove=%d len=%d, want 3 and 2", v, l.Len())
	}
	// Removing twice is a no-op.
	l.Remove(e3)
	if l.Len() != 2 {
		t.Errorf("len=%d after double remove, want 2", l.Len())
	}
}
