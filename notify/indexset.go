package notify

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
	"strings"
)

// Range is the half-open interval [Begin, End) of collection positions.
type Range struct {
	Begin uint64
	End   uint64
}

// IndexSet is an ordered set of collection positions, stored as sorted,
// disjoint, non-adjacent ranges. The zero value is an empty set.
type IndexSet struct {
	ranges []Range
}

// IndexSetOf returns the set holding indices, which may be unsorted and may
// contain duplicates.
func IndexSetOf(indices ...uint64) IndexSet {
	var s IndexSet
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// MaxPosition is the largest position an [IndexSet] can hold, ranges being
// half-open.
const MaxPosition = math.MaxUint64 - 1

// Add inserts index. It panics if index is greater than [MaxPosition].
func (s *IndexSet) Add(index uint64) {
	if index > MaxPosition {
		panic(fmt.Sprintf("notify: index %d exceeds the maximum position", index))
	}
	s.AddRange(index, index+1)
}

// AddRange inserts every position in [begin, end).
func (s *IndexSet) AddRange(begin, end uint64) {
	if begin >= end {
		return
	}
	// first range that ends at or after begin (touching ranges merge)
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End >= begin })
	j := i
	for j < len(s.ranges) && s.ranges[j].Begin <= end {
		begin = min(begin, s.ranges[j].Begin)
		end = max(end, s.ranges[j].End)
		j++
	}
	s.ranges = slices.Replace(s.ranges, i, j, Range{Begin: begin, End: end})
}

// Contains reports whether index is in the set.
func (s IndexSet) Contains(index uint64) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End > index })
	return i < len(s.ranges) && s.ranges[i].Begin <= index
}

// Len returns the number of positions in the set.
func (s IndexSet) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.End - r.Begin)
	}
	return n
}

// Empty reports whether the set has no positions.
func (s IndexSet) Empty() bool { return len(s.ranges) == 0 }

// Ranges returns the ranges of the set, in ascending order.
func (s IndexSet) Ranges() []Range { return slices.Clone(s.ranges) }

// Indexes yields every position, in ascending order.
func (s IndexSet) Indexes() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, r := range s.ranges {
			for i := r.Begin; i < r.End; i++ {
				if !yield(i) {
					return
				}
			}
		}
	}
}

// Slice returns every position, in ascending order.
func (s IndexSet) Slice() []uint64 {
	return slices.AppendSeq(make([]uint64, 0, s.Len()), s.Indexes())
}

// Equal reports whether both sets hold the same positions.
func (s IndexSet) Equal(other IndexSet) bool {
	return slices.Equal(s.ranges, other.ranges)
}

func (s IndexSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range s.ranges {
		if i != 0 {
			b.WriteByte(' ')
		}
		if r.End-r.Begin == 1 {
			fmt.Fprintf(&b, "%d", r.Begin)
		} else {
			fmt.Fprintf(&b, "%d-%d", r.Begin, r.End-1)
		}
	}
	b.WriteByte(']')
	return b.String()
}
