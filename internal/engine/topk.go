package engine

import (
	"container/heap"
	"math"
	"sort"
)

// Selector keeps the K best recommendations seen so far in a bounded
// min-root heap keyed by the ranking order, so selecting K winners from
// N candidates costs O(N log K) instead of sorting all N.
//
// One Selector serves one recommendation pass; it is not safe for
// concurrent use and is not meant to be shared.
type Selector struct {
	k     int
	items recHeap
}

// NewSelector returns a Selector that retains at most k results.
func NewSelector(k int) *Selector {
	if k < 0 {
		k = 0
	}
	return &Selector{k: k, items: make(recHeap, 0, k)}
}

// Offer considers one candidate. Under capacity it is inserted; at
// capacity it replaces the current worst survivor only if it ranks
// strictly ahead of it.
func (s *Selector) Offer(rec Recommendation) {
	if s.k == 0 {
		return
	}
	if len(s.items) < s.k {
		heap.Push(&s.items, rec)
		return
	}
	if ranksAhead(rec, s.items[0]) {
		s.items[0] = rec
		heap.Fix(&s.items, 0)
	}
}

// Results drains the selector and returns the survivors best-first.
func (s *Selector) Results() []Recommendation {
	out := make([]Recommendation, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool { return ranksAhead(out[i], out[j]) })
	s.items = s.items[:0]
	return out
}

// ranksAhead reports whether a should be ranked ahead of b. The
// tie-break chain is: higher final score, then lower institution rank
// (unknown rank loses to any known rank), then lower fee, then
// lexicographically smaller course id. Distinct course ids make the
// order total, so equal scores never produce a non-deterministic
// ranking.
func ranksAhead(a, b Recommendation) bool {
	if a.Breakdown.Final != b.Breakdown.Final {
		return a.Breakdown.Final > b.Breakdown.Final
	}
	ar, br := rankKey(a.Course.InstitutionRank), rankKey(b.Course.InstitutionRank)
	if ar != br {
		return ar < br
	}
	if a.Course.Fee != b.Course.Fee {
		return a.Course.Fee < b.Course.Fee
	}
	return a.Course.ID < b.Course.ID
}

func rankKey(rank int) int {
	if rank <= 0 {
		return math.MaxInt
	}
	return rank
}

// recHeap is a min-root heap: the worst-ranked survivor sits at the
// root where Offer can compare against and evict it.
type recHeap []Recommendation

func (h recHeap) Len() int           { return len(h) }
func (h recHeap) Less(i, j int) bool { return ranksAhead(h[j], h[i]) }
func (h recHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *recHeap) Push(x any) {
	*h = append(*h, x.(Recommendation))
}

func (h *recHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
