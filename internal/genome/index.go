package genome

import (
	"math"
	"sort"
)

const maxPos = math.MaxInt64

// Index answers overlap queries against a fixed set of intervals using a
// per-chromosome sorted slice. Intervals are added once and never modified
// after build.
type Index struct {
	chroms map[string]*chromIndex
}

type chromIndex struct {
	entries  []indexEntry
	maxRight []int64 // maxRight[i] = max(Right) for entries[:i+1]
}

type indexEntry struct {
	left  int64
	right int64
	id    int
}

// BuildIndex creates an index from intervals. Query results refer to
// intervals by their position in the input slice.
func BuildIndex(intervals []Interval) *Index {
	idx := &Index{chroms: make(map[string]*chromIndex)}

	for i, iv := range intervals {
		ci, ok := idx.chroms[iv.Chrom]
		if !ok {
			ci = &chromIndex{}
			idx.chroms[iv.Chrom] = ci
		}
		ci.entries = append(ci.entries, indexEntry{left: iv.Left, right: iv.Right, id: i})
	}

	for _, ci := range idx.chroms {
		sort.SliceStable(ci.entries, func(i, j int) bool {
			return ci.entries[i].left < ci.entries[j].left
		})

		ci.maxRight = make([]int64, len(ci.entries))
		ci.maxRight[0] = ci.entries[0].right
		for i := 1; i < len(ci.entries); i++ {
			ci.maxRight[i] = ci.entries[i].right
			if ci.maxRight[i-1] > ci.maxRight[i] {
				ci.maxRight[i] = ci.maxRight[i-1]
			}
		}
	}

	return idx
}

// Overlapping returns the ids of all indexed intervals overlapping q, in
// ascending order.
func (idx *Index) Overlapping(q Interval) []int {
	ci, ok := idx.chroms[q.Chrom]
	if !ok {
		return nil
	}

	// Candidates are the entries starting at or before q.Right.
	hi := sort.Search(len(ci.entries), func(i int) bool {
		return ci.entries[i].left > q.Right
	})

	var ids []int
	for i := hi - 1; i >= 0; i-- {
		// No entry in [0, i] reaches q.Left.
		if ci.maxRight[i] < q.Left {
			break
		}
		if ci.entries[i].right >= q.Left {
			ids = append(ids, ci.entries[i].id)
		}
	}

	sort.Ints(ids)
	return ids
}

// Len returns the number of indexed intervals.
func (idx *Index) Len() int {
	n := 0
	for _, ci := range idx.chroms {
		n += len(ci.entries)
	}
	return n
}
