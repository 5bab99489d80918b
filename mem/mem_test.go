package mem

import "testing"

func TestBucketSlice(t *testing.T) {
	var l BucketSlice[int]
	for i := 0; i < bucketSize*2+5; i++ {
		if idx := l.Append(i * 10); idx != i {
			t.Fatalf("l.Append returned index %d, want %d", idx, i)
		}
	}
	if l.Len() != bucketSize*2+5 {
		t.Errorf("l.Len()=%d, want %d", l.Len(), bucketSize*2+5)
	}
	for i := 0; i < l.Len(); i++ {
		if got := l.Get(i); got != i*10 {
			t.Errorf("l.Get(%d)=%d, want %d", i, got, i*10)
		}
	}

	ptr := l.Ptr(3)
	l.Append(-1)
	if *ptr != 30 {
		t.Errorf("pointer into slice moved: *ptr=%d, want 30", *ptr)
	}

	l.Truncate(bucketSize + 1)
	if l.Len() != bucketSize+1 {
		t.Errorf("after Truncate l.Len()=%d, want %d", l.Len(), bucketSize+1)
	}
	if idx := l.Append(7); idx != bucketSize+1 {
		t.Errorf("after Truncate l.Append returned %d, want %d", idx, bucketSize+1)
	}

	l.Reset()
	if l.Len() != 0 {
		t.Errorf("after Reset l.Len()=%d, want 0", l.Len())
	}
	if idx := l.Append(1); idx != 0 {
		t.Errorf("after Reset l.Append returned %d, want 0", idx)
	}
}

func TestBucketSliceOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Get past the end didn't panic")
		}
	}()
	var l BucketSlice[int]
	l.Append(1)
	l.Get(1)
}

func TestEnsureLen(t *testing.T) {
	s := EnsureLen([]int{1}, 3)
	if len(s) != 3 || s[0] != 1 || s[2] != 0 {
		t.Errorf("EnsureLen=%v, want [1 0 0]", s)
	}
	if s2 := EnsureLen(s, 2); len(s2) != 3 {
		t.Errorf("EnsureLen shrank the slice to %d", len(s2))
	}
}
