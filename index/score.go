package index

// Similarity selects how a raw set-intersection count is normalized
// into a final score (spec.md §4.4). It is modeled as a small tagged
// variant rather than a function pointer so the scorer's inner loop
// stays monomorphic (spec.md §9).
type Similarity int

const (
	// Jaccard is |Q ∩ S| / |Q ∪ S|.
	Jaccard Similarity = iota
	// SetIntersection is the raw intersection count, unnormalized.
	SetIntersection
	// SetIntersectionNormByQueryLen is |Q ∩ S| / |Q|.
	SetIntersectionNormByQueryLen
)

func (s Similarity) String() string {
	switch s {
	case Jaccard:
		return "jaccard"
	case SetIntersection:
		return "set_intersection"
	case SetIntersectionNormByQueryLen:
		return "set_intersection_norm_by_query_len"
	default:
		return "unknown"
	}
}

// ScoreBlock computes, for one Block and a normalized query set,
// per-song similarity under sim. query must already be strictly
// ascending (see normalize). out must have length >= b.NSongs(); it is
// zeroed and then filled in place, so callers can reuse one scratch
// buffer across every block of a query (spec.md §5's memory model).
//
// The merge walks query and b.codes together with a running offset
// into b.song_indices, touching song_indices only on a match — the
// only array the inner loop scans. Complexity is
// O(|query| + Σ_matched code_lengths[i]).
func ScoreBlock(query []uint32, b *Block, sim Similarity, out []float32) {
	for n := range out[:b.nSongs] {
		out[n] = 0
	}

	i, j, off := 0, 0, 0
	for j < len(query) && i < int(b.nCodes) {
		switch {
		case query[j] == b.codes[i]:
			length := b.codeLengths[i]
			for k := uint32(0); k < length; k++ {
				out[b.songIndices[off+int(k)]]++
			}
			off += int(length)
			i++
			j++
		case query[j] < b.codes[i]:
			j++
		default:
			off += int(b.codeLengths[i])
			i++
		}
	}

	queryLen := float32(len(query))
	for n := 0; n < int(b.nSongs); n++ {
		num := out[n]
		var den float32
		switch sim {
		case SetIntersection:
			den = 1
		case SetIntersectionNormByQueryLen:
			den = queryLen
		default: // Jaccard
			den = queryLen + float32(b.songLengths[n]) - num
		}
		out[n] = num / den
	}
}
