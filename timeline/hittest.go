package timeline

import (
	"cmp"

	"golang.org/x/exp/slices"
	"honnef.co/go/tracelayout/mem"
	"honnef.co/go/tracelayout/trace"
)

// levelIndex answers point queries against the entries of each level. Within a level, entries are sorted by
// start, and maxEnd[i] holds the largest end of entries [0, i].
type levelIndex struct {
	entries [][]int
	maxEnd  [][]trace.Timestamp
}

func newLevelIndex(es *Entries) *levelIndex {
	idx := &levelIndex{}
	for i := 0; i < es.Len(); i++ {
		level := es.Level(i)
		if level < 0 {
			continue
		}
		idx.entries = mem.EnsureLen(idx.entries, level+1)
		idx.entries[level] = append(idx.entries[level], i)
	}
	idx.maxEnd = make([][]trace.Timestamp, len(idx.entries))
	for level, ids := range idx.entries {
		slices.SortStableFunc(ids, func(a, b int) int {
			return cmp.Compare(es.Start(a), es.Start(b))
		})
		ends := make([]trace.Timestamp, len(ids))
		var m trace.Timestamp
		for i, id := range ids {
			if e := es.At(id).End(); i == 0 || e > m {
				m = e
			}
			ends[i] = m
		}
		idx.maxEnd[level] = ends
	}
	return idx
}

// at returns the indices of entries on level that contain ts, in ascending start order.
func (idx *levelIndex) at(es *Entries, level int, ts trace.Timestamp) []int {
	if level < 0 || level >= len(idx.entries) {
		return nil
	}
	ids := idx.entries[level]
	ends := idx.maxEnd[level]
	// Number of entries that start at or before ts.
	n, _ := slices.BinarySearchFunc(ids, ts, func(id int, ts trace.Timestamp) int {
		if es.Start(id) <= ts {
			return -1
		}
		return 1
	})
	var out []int
	for i := n - 1; i >= 0 && ends[i] > ts; i-- {
		if es.At(ids[i]).End() > ts {
			out = append(out, ids[i])
		}
	}
	slices.Reverse(out)
	return out
}
