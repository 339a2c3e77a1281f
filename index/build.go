package index

import "fmt"

// BuildBlock inverts a batch of per-song code sequences into a Block,
// per spec.md §4.2.
//
// songsCodes[i] is the code sequence for song i. If alreadySortedDistinct
// is false, each sequence is normalized (sorted, deduplicated) before use;
// the caller's slices are not mutated — BuildBlock always works on its
// own copies. If alreadySortedDistinct is true, the caller attests that
// every songsCodes[i] is already strictly ascending.
//
// n_songs > 65,535 is a client error: the block's song-index field is
// 16 bits wide (spec.md §3, §9).
func BuildBlock(songsCodes [][]uint32, alreadySortedDistinct bool) (*Block, error) {
	nSongs := len(songsCodes)
	if nSongs > maxSongsPerBlock {
		return nil, fmt.Errorf("index: %d songs exceeds the 16-bit block limit of %d: %w", nSongs, maxSongsPerBlock, ErrInvalidInput)
	}

	sets := make([][]uint32, nSongs)
	songLengths := make([]uint32, nSongs)
	totalCodes := 0
	for i, seq := range songsCodes {
		var set []uint32
		if alreadySortedDistinct {
			set = seq
		} else {
			set = normalizeCopy(seq)
		}
		sets[i] = set
		songLengths[i] = uint32(len(set))
		totalCodes += len(set)
	}

	// codes = normalize(concatenation of every song's set).
	concat := make([]uint32, 0, totalCodes)
	for _, set := range sets {
		concat = append(concat, set...)
	}
	codes := normalize(concat)
	nCodes := len(codes)

	// codeIndex maps a distinct code to its position in codes, so the
	// two passes below run in O(total codes) rather than the per-song
	// linear rescan the original C implementation performs (see
	// spec.md §9's open question: replacing the linear walk with a
	// lookup does not change observable output).
	codeIndex := make(map[uint32]int, nCodes)
	for i, c := range codes {
		codeIndex[c] = i
	}

	// code_lengths[i]: number of songs whose set contains codes[i].
	codeLengths := make([]uint32, nCodes)
	for _, set := range sets {
		for _, c := range set {
			codeLengths[codeIndex[c]]++
		}
	}

	// Exclusive prefix offsets into song_indices.
	codeOffsets := make([]uint32, nCodes)
	var running uint32
	for i, n := range codeLengths {
		codeOffsets[i] = running
		running += n
	}

	songIndices := make([]uint16, running)
	cursor := append([]uint32(nil), codeOffsets...) // mutable write cursor per code
	for i, set := range sets {
		for _, c := range set {
			pos := codeIndex[c]
			songIndices[cursor[pos]] = uint16(i)
			cursor[pos]++
		}
	}

	return &Block{
		nCodes:      uint32(nCodes),
		nSongs:      uint32(nSongs),
		codes:       codes,
		codeLengths: codeLengths,
		songLengths: songLengths,
		songIndices: songIndices,
	}, nil
}
