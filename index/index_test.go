package index

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultKUsedWhenKNotPositive(t *testing.T) {
	ix := mustLoadOneBlock(t)
	def := Query(ix, []uint32{1, 2, 3}, SetIntersection, DefaultK)
	zero := Query(ix, []uint32{1, 2, 3}, SetIntersection, 0)
	if len(def) != len(zero) {
		t.Fatalf("k=0 result count %d != k=DefaultK result count %d", len(zero), len(def))
	}
	for i := range def {
		if def[i] != zero[i] {
			t.Errorf("result[%d]: k=0 gave %v, k=DefaultK gave %v", i, zero[i], def[i])
		}
	}
}

func TestCloseReleasesBlocks(t *testing.T) {
	ix := mustLoadOneBlock(t)
	if err := ix.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if ix.Blocks() != nil {
		t.Errorf("Blocks() after Close = %v, want nil", ix.Blocks())
	}
}

func TestLoadPathOrderDeterminesGlobalIDs(t *testing.T) {
	dir := t.TempDir()
	songs := threeSongs()
	path0 := filepath.Join(dir, "a") // holds s0 only
	path1 := filepath.Join(dir, "b") // holds s1, s2
	if err := BuildAndWriteBlock(songs[:1], path0, false); err != nil {
		t.Fatalf("BuildAndWriteBlock: %v", err)
	}
	if err := BuildAndWriteBlock(songs[1:], path1, false); err != nil {
		t.Fatalf("BuildAndWriteBlock: %v", err)
	}

	// Forward order [a,b]: s0 is global id 0, s1 is global id 1.
	forward, err := Load([]string{path0, path1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer forward.Close()
	gotForward := Query(forward, []uint32{1, 2, 3}, SetIntersection, 10)
	if gotForward[0] != (Result{SongID: 0, Score: 3}) {
		t.Errorf("forward order: top result = %v, want {0 3}", gotForward[0])
	}

	// Reversed order [b,a]: b's two songs (s1, s2) take ids 0 and 1, so
	// s0 becomes global id 2 — the same song, a different id, because
	// the manifest order is significant (spec.md §6).
	reversed, err := Load([]string{path1, path0})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer reversed.Close()
	gotReversed := Query(reversed, []uint32{1, 2, 3}, SetIntersection, 10)
	if gotReversed[0] != (Result{SongID: 2, Score: 3}) {
		t.Errorf("reversed order: top result = %v, want {2 3}", gotReversed[0])
	}
}

func TestValidateCatchesCorruptSongIndex(t *testing.T) {
	b, err := BuildBlock(threeSongs(), false)
	if err != nil {
		t.Fatalf("BuildBlock: %v", err)
	}
	b.songIndices[0] = uint16(b.nSongs) // out of range
	ix := &Index{blocks: []*Block{b}, base: []uint32{0}}
	if err := ix.Validate(); err == nil {
		t.Fatal("Validate: want error for out-of-range song index, got nil")
	}
}

func TestLoadAllPathsCheckedReturnsNoPartialIndex(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good")
	if err := BuildAndWriteBlock(threeSongs(), good, false); err != nil {
		t.Fatalf("BuildAndWriteBlock: %v", err)
	}
	ix, err := Load([]string{good, filepath.Join(dir, "missing")})
	if err == nil {
		t.Fatal("Load with one missing path: want error, got nil")
	}
	if ix != nil {
		t.Errorf("Load with one missing path returned a partial Index: %v", ix)
	}
	if !errors.Is(err, ErrIndexLoadFailed) {
		t.Errorf("Load error = %v, want wrapping ErrIndexLoadFailed", err)
	}
}
