package index

import (
	"fmt"
	"os"
)

// Index is an ordered, read-only collection of Blocks. The global song
// id for local position i of block b is i + the sum of every preceding
// block's NSongs (spec.md §3). The Index owns its Blocks exclusively;
// Close releases them.
type Index struct {
	blocks []*Block
	// base[b] is the global id of block b's first song.
	base []uint32
}

// Load opens every path in order and decodes it as a Block, assembling
// an Index whose global-id space follows that order (spec.md §6: there
// is no manifest, so the order of paths is significant and the caller
// owns it).
//
// If any path cannot be opened or fully read, Load returns
// ErrIndexLoadFailed and no Index — the caller never observes a
// partially loaded Index (spec.md §7).
func Load(paths []string) (*Index, error) {
	blocks := make([]*Block, 0, len(paths))
	base := make([]uint32, 0, len(paths))
	var total uint32
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", ErrIndexLoadFailed, path, err)
		}
		b, err := LoadBlock(f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrIndexLoadFailed, path, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("%w: closing %s: %v", ErrIndexLoadFailed, path, closeErr)
		}
		base = append(base, total)
		blocks = append(blocks, b)
		total += b.nSongs
	}
	return &Index{blocks: blocks, base: base}, nil
}

// SongCount returns the total number of songs across every block.
func (ix *Index) SongCount() uint32 {
	var total uint32
	for _, b := range ix.blocks {
		total += b.nSongs
	}
	return total
}

// Blocks returns the index's blocks in load order. The caller must not
// mutate the arrays backing a returned Block.
func (ix *Index) Blocks() []*Block { return ix.blocks }

// Close releases the Index's blocks. A closed Index must not be used
// again; per spec.md §3, a loaded Index is otherwise immutable for its
// entire lifetime; Close is its only state transition.
func (ix *Index) Close() error {
	ix.blocks = nil
	ix.base = nil
	return nil
}

// maxBlockSongs returns the largest NSongs across every block, which
// sizes the scratch score buffer Query allocates once per call
// (spec.md §5).
func (ix *Index) maxBlockSongs() int {
	max := 0
	for _, b := range ix.blocks {
		if n := int(b.nSongs); n > max {
			max = n
		}
	}
	return max
}
