// Package index implements an in-memory inverted index over audio
// fingerprints: sequences of 32-bit codes extracted from songs. See the
// Block type, the BuildBlock function and the Index type for the
// on-disk/in-memory layout, the
// construction algorithm, and the ordered collection of blocks that
// answers nearest-neighbor queries.
package index

import "fmt"

// maxSongsPerBlock is the largest number of songs a single Block can
// hold: song_indices entries are packed as 16-bit local indices.
const maxSongsPerBlock = 1<<16 - 1

// A Block is an immutable inverted index over a batch of songs.
//
// It is the structure-of-arrays described by spec.md §3: for each
// distinct code appearing in any song of the block, a contiguous run
// of local song indices (the posting list) records which songs contain
// it. The layout keeps the scorer's inner loop a tight scan over
// song_indices, the only array touched per match.
type Block struct {
	nCodes uint32
	nSongs uint32

	codes       []uint32 // [nCodes], strictly ascending
	codeLengths []uint32 // [nCodes], posting-list length per code
	songLengths []uint32 // [nSongs], set cardinality per song
	songIndices []uint16 // [sum(codeLengths)], concatenated posting lists
}

// NCodes returns the number of distinct codes in the block.
func (b *Block) NCodes() uint32 { return b.nCodes }

// NSongs returns the number of songs in the block.
func (b *Block) NSongs() uint32 { return b.nSongs }

// Codes returns the block's strictly ascending distinct codes.
func (b *Block) Codes() []uint32 { return b.codes }

// CodeLengths returns, per code, the number of songs whose set contains
// it (the posting-list length for that code).
func (b *Block) CodeLengths() []uint32 { return b.codeLengths }

// SongLengths returns the set cardinality of each song in the block.
func (b *Block) SongLengths() []uint32 { return b.songLengths }

// SongIndices returns the concatenation, in Codes() order, of every
// code's posting list.
func (b *Block) SongIndices() []uint16 { return b.songIndices }

// byteSize returns the persistent memory footprint of the block's four
// arrays, per spec.md §5: 4·(2 + 2·n_codes + n_songs) + 2·Σcode_lengths.
func (b *Block) byteSize() int64 {
	return 4*(2+2*int64(b.nCodes)+int64(b.nSongs)) + 2*int64(len(b.songIndices))
}

// checkInvariants verifies the five invariants of spec.md §3 against the
// block's arrays. It is not run on the hot load/query path (the codec
// trusts its producer, per spec.md §4.3) but is exposed for tests and
// for callers that want to validate an untrusted block file.
func (b *Block) checkInvariants() error {
	if uint32(len(b.codes)) != b.nCodes || uint32(len(b.codeLengths)) != b.nCodes {
		return fmt.Errorf("index: code arrays have length %d/%d, want n_codes=%d", len(b.codes), len(b.codeLengths), b.nCodes)
	}
	if uint32(len(b.songLengths)) != b.nSongs {
		return fmt.Errorf("index: song_lengths has length %d, want n_songs=%d", len(b.songLengths), b.nSongs)
	}
	for i := 1; i < len(b.codes); i++ {
		if b.codes[i-1] >= b.codes[i] {
			return fmt.Errorf("index: codes not strictly ascending at %d", i)
		}
	}
	var sum int64
	for _, n := range b.codeLengths {
		sum += int64(n)
	}
	if sum != int64(len(b.songIndices)) {
		return fmt.Errorf("index: sum(code_lengths)=%d != len(song_indices)=%d", sum, len(b.songIndices))
	}
	counts := make([]uint32, b.nSongs)
	for _, s := range b.songIndices {
		if uint32(s) >= b.nSongs {
			return fmt.Errorf("index: song_indices entry %d out of range [0,%d)", s, b.nSongs)
		}
		counts[s]++
	}
	for s, want := range b.songLengths {
		if counts[s] != want {
			return fmt.Errorf("index: song %d has %d postings, want song_lengths=%d", s, counts[s], want)
		}
	}
	return nil
}
