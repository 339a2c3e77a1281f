package index

import "fmt"

// Validate checks every invariant of spec.md §3 against ix's blocks.
// The codec trusts its producer and never calls this on the query path
// (spec.md §4.3); it exists for tests and for callers loading block
// files from an untrusted source, mirroring the teacher's index
// consistency checker.
func (ix *Index) Validate() error {
	for i, b := range ix.blocks {
		if err := b.checkInvariants(); err != nil {
			return fmt.Errorf("index: block %d: %w", i, err)
		}
	}
	return nil
}
