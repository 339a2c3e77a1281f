package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Block file format (spec.md §4.3, §6): little-endian, no padding, no
// header magic or version byte — the caller's contract is that every
// path it hands to Load was produced by WriteBlock.
//
//	u32  n_codes
//	u32  n_songs
//	u32  codes[n_codes]
//	u32  code_lengths[n_codes]
//	u32  song_lengths[n_songs]
//	u16  song_indices[sum(code_lengths)]

// WriteBlock serializes b to w in the format above. It does not
// validate b's invariants; that is the caller's responsibility (see
// Block.checkInvariants for tests).
func WriteBlock(w io.Writer, b *Block) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, b.nCodes); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.nSongs); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.codes); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.codeLengths); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.songLengths); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, b.songIndices); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadBlock reads a Block back from r, in the format WriteBlock wrote.
// The final song_indices array is sized from sum(code_lengths), which is
// only known once that array has been read.
func LoadBlock(r io.Reader) (*Block, error) {
	br := bufio.NewReader(r)

	var nCodes, nSongs uint32
	if err := binary.Read(br, binary.LittleEndian, &nCodes); err != nil {
		return nil, fmt.Errorf("index: reading n_codes: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &nSongs); err != nil {
		return nil, fmt.Errorf("index: reading n_songs: %w", err)
	}

	codes := make([]uint32, nCodes)
	if err := binary.Read(br, binary.LittleEndian, codes); err != nil {
		return nil, fmt.Errorf("index: reading codes: %w", err)
	}
	codeLengths := make([]uint32, nCodes)
	if err := binary.Read(br, binary.LittleEndian, codeLengths); err != nil {
		return nil, fmt.Errorf("index: reading code_lengths: %w", err)
	}
	songLengths := make([]uint32, nSongs)
	if err := binary.Read(br, binary.LittleEndian, songLengths); err != nil {
		return nil, fmt.Errorf("index: reading song_lengths: %w", err)
	}

	var total uint64
	for _, n := range codeLengths {
		total += uint64(n)
	}
	songIndices := make([]uint16, total)
	if err := binary.Read(br, binary.LittleEndian, songIndices); err != nil {
		return nil, fmt.Errorf("index: reading song_indices: %w", err)
	}

	return &Block{
		nCodes:      nCodes,
		nSongs:      nSongs,
		codes:       codes,
		codeLengths: codeLengths,
		songLengths: songLengths,
		songIndices: songIndices,
	}, nil
}

// BuildAndWriteBlock inverts songsCodes into a Block (see BuildBlock)
// and writes it to path. The write is atomic: the block is assembled
// in a temporary file in path's directory, then renamed into place, so
// a reader never observes a partially-written block.
func BuildAndWriteBlock(songsCodes [][]uint32, path string, alreadySortedDistinct bool) error {
	block, err := BuildBlock(songsCodes, alreadySortedDistinct)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fpindex-block-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlockWriteFailed, err)
	}
	defer os.Remove(tmp.Name()) // no-op once the rename below succeeds

	if err := WriteBlock(tmp, block); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrBlockWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrBlockWriteFailed, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrBlockWriteFailed, err)
	}
	return nil
}
