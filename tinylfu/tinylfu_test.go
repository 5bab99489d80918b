package tinylfu

import (
	"strconv"
	"testing"
)

func TestAddAlreadyInCache(t *testing.T) {
	c := New[string, string](100, 10000)

	c.Add("foo", "bar")

	val, _ := c.Get("foo")
	if val != "bar" {
		t.Errorf("c.Get(foo)=%q, want %q", val, "bar")
	}

	c.Add("foo", "baz")

	val, _ = c.Get("foo")
	if val != "baz" {
		t.Errorf("c.Get(foo)=%q, want %q", val, "baz")
	}
}

func TestBounded(t *testing.T) {
	c := New[string, int](16, 1000)
	for i := 0; i < 1000; i++ {
		c.Add(strconv.Itoa(i), i)
	}
	if c.Len() > 16 {
		t.Errorf("c.Len()=%d, want <= 16", c.Len())
	}
}

func TestPurge(t *testing.T) {
	c := New[string, bool](8, 100)
	c.Add("a", true)
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Errorf("c.Get(a) hit after Purge")
	}
	if c.Len() != 0 {
		t.Errorf("c.Len()=%d after Purge, want 0", c.Len())
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New[string, int](8, 100)
	calls := 0
	fn := func(k string) int {
		calls++
		return len(k)
	}
	if v := c.GetOrCompute("abc", fn); v != 3 {
		t.Errorf("GetOrCompute=%d, want 3", v)
	}
	if v := c.GetOrCompute("abc", fn); v != 3 {
		t.Errorf("GetOrCompute=%d, want 3", v)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

var SinkString string
var SinkBool bool

func BenchmarkGet(b *testing.B) {
	t := New[string, string](64, 640)
	key := "some arbitrary key"
	val := "some arbitrary value"
	t.Add(key, val)
	for i := 0; i < b.N; i++ {
		SinkString, SinkBool = t.Get(key)
	}
}

func TestFrequentKeysSurvive(t *testing.T) {
	c := New[int, int](100, 1000)
	for i := 0; i < 100; i++ {
		c.Add(i, i)
	}
	for round := 0; round < 5; round++ {
		for i := 0; i < 10; i++ {
			c.Get(i)
		}
	}
	// A scan of keys that are seen once mustn't evict the frequently used ones.
	for i := 1000; i < 2000; i++ {
		c.Add(i, i)
	}
	for i := 0; i < 10; i++ {
		if v, ok := c.Get(i); !ok || v != i {
			t.Errorf("c.Get(%d)=(%d, %t), want (%d, true)", i, v, ok, i)
		}
	}
	if c.Len() > 100 {
		t.Errorf("c.Len()=%d, want <= 100", c.Len())
	}
}
