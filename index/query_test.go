package index

import (
	"path/filepath"
	"testing"
)

func mustLoadOneBlock(t *testing.T) *Index {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "block0")
	if err := BuildAndWriteBlock(threeSongs(), path, false); err != nil {
		t.Fatalf("BuildAndWriteBlock: %v", err)
	}
	ix, err := Load([]string{path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestQuerySetIntersectionIncludesZeroScores(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got := Query(ix, []uint32{1, 2, 3}, SetIntersection, 3)
	want := []Result{{0, 3.0}, {1, 2.0}, {2, 0.0}}
	if len(got) != len(want) {
		t.Fatalf("Query = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Query[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQueryJaccardK2(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got := Query(ix, []uint32{1, 2, 3}, Jaccard, 2)
	want := []Result{{0, 1.0}, {1, 0.5}}
	if len(got) != 2 {
		t.Fatalf("Query = %v, want 2 results", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Query[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQuerySetIntersectionNormByQueryLenTieAscendingID(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got := Query(ix, []uint32{2, 3}, SetIntersectionNormByQueryLen, 3)
	want := []Result{{0, 1.0}, {1, 1.0}, {2, 0.0}}
	if len(got) != 3 {
		t.Fatalf("Query = %v, want 3 results", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Query[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestQueryEmptyReturnsNoResults(t *testing.T) {
	ix := mustLoadOneBlock(t)
	if got := Query(ix, nil, Jaccard, 3); len(got) != 0 {
		t.Errorf("Query(nil) = %v, want no results", got)
	}
	if got := Query(ix, []uint32{}, SetIntersection, 3); len(got) != 0 {
		t.Errorf("Query([]) = %v, want no results", got)
	}
}

func TestQueryDuplicateCodesJaccard(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got := Query(ix, []uint32{5, 5, 6, 6, 6}, Jaccard, 3)
	if len(got) == 0 {
		t.Fatal("Query = no results, want at least song 2")
	}
	if got[0] != (Result{SongID: 2, Score: 1.0}) {
		t.Errorf("Query[0] = %v, want {2 1}", got[0])
	}
}

func TestQueryKGreaterThanTotalSongsReturnsAllSongs(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got := Query(ix, []uint32{1, 2, 3}, SetIntersection, 1000)
	if uint32(len(got)) != ix.SongCount() {
		t.Errorf("len(Query) = %d, want %d (total songs)", len(got), ix.SongCount())
	}
}

func TestQueryPermutationInvariant(t *testing.T) {
	ix := mustLoadOneBlock(t)
	got1 := Query(ix, []uint32{1, 2, 3}, Jaccard, 3)
	got2 := Query(ix, []uint32{3, 1, 2}, Jaccard, 3)
	if len(got1) != len(got2) {
		t.Fatalf("results differ in length by permutation: %v vs %v", got1, got2)
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Errorf("Query differs under code permutation at %d: %v vs %v", i, got1[i], got2[i])
		}
	}
}

// TestQuerySplitAcrossBlocksMatchesSingleBlock exercises the
// repartitioning property (spec.md §8 property 9 and scenario 6):
// splitting the same songs across two differently-sized blocks yields
// the same (score, song-set) pairs, with global ids following the
// flattened block order.
func TestQuerySplitAcrossBlocksMatchesSingleBlock(t *testing.T) {
	dir := t.TempDir()
	songs := threeSongs()

	path0 := filepath.Join(dir, "block0")
	if err := BuildAndWriteBlock(songs[:2], path0, false); err != nil {
		t.Fatalf("BuildAndWriteBlock block0: %v", err)
	}
	path1 := filepath.Join(dir, "block1")
	if err := BuildAndWriteBlock(songs[2:], path1, false); err != nil {
		t.Fatalf("BuildAndWriteBlock block1: %v", err)
	}

	ix, err := Load([]string{path0, path1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer ix.Close()

	got := Query(ix, []uint32{1, 2, 3}, Jaccard, 3)
	want := []Result{{0, 1.0}, {1, 0.5}, {2, 0.0}}
	if len(got) != len(want) {
		t.Fatalf("Query = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Query[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
