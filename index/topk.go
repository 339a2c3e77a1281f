package index

// Result is one ranked (song, score) pair returned by Query.
type Result struct {
	SongID uint32
	Score  float32
}

// DefaultK is the engine's default result-set size (spec.md §6).
const DefaultK = 10

// ranker maintains a descending-score buffer of fixed capacity K across
// every block of a query (spec.md §4.5). Sentinel score -1 fills empty
// slots; all real similarities are >= 0, so the sentinel is never
// confused with a real match.
type ranker struct {
	scores []float32
	ids    []uint32
}

func newRanker(k int) *ranker {
	r := &ranker{
		scores: make([]float32, k),
		ids:    make([]uint32, k),
	}
	for n := range r.scores {
		r.scores[n] = -1
		r.ids[n] = uint32(n)
	}
	return r
}

// offer inserts (score, id) if it belongs in the top K. A later
// candidate with a score equal to an existing entry never displaces it
// (the search below uses strict '>'), so ties resolve in order of
// arrival — and since offer is always called in ascending global-id
// order, ties break by ascending id (spec.md §5, §9).
func (r *ranker) offer(score float32, id uint32) {
	k := len(r.scores)
	p := k
	for p > 0 && r.scores[p-1] <= score {
		p--
	}
	// p is now the smallest position whose current score is <= score;
	// walk back up past equal scores so ties keep their earlier owner.
	for p < k && r.scores[p] == score {
		p++
	}
	if p >= k {
		return
	}
	copy(r.scores[p+1:], r.scores[p:k-1])
	copy(r.ids[p+1:], r.ids[p:k-1])
	r.scores[p] = score
	r.ids[p] = id
}

// results returns the effective top results: every slot whose score is
// >= 0, in descending-score (ascending-id-on-tie) order.
func (r *ranker) results() []Result {
	out := make([]Result, 0, len(r.scores))
	for n, s := range r.scores {
		if s < 0 {
			break
		}
		out = append(out, Result{SongID: r.ids[n], Score: s})
	}
	return out
}
