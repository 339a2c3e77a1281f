package index

import "slices"

// normalize sorts seq ascending and collapses runs of equal values,
// returning a strictly ascending subslice of seq's backing array.
//
// Complexity is O(n log n) for the sort; the dedup pass is O(n).
func normalize(seq []uint32) []uint32 {
	if len(seq) < 2 {
		return seq
	}
	slices.Sort(seq)
	i := 0
	for j := 1; j < len(seq); j++ {
		if seq[i] != seq[j] {
			i++
			seq[i] = seq[j]
		}
	}
	return seq[:i+1]
}

// normalizeCopy is like normalize but never mutates the caller's slice.
func normalizeCopy(seq []uint32) []uint32 {
	out := slices.Clone(seq)
	return normalize(out)
}
