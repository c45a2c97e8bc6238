// Package alphabet implements the two-pass byte-alphabet compaction of
// spec.md section 4.8: remap the bytes actually seen in the input to a
// dense 0..sigma-1 range, so automaton transition maps and fmindex
// alphabet-indexed tables stay small.
package alphabet

import "github.com/jkans/superstring-scs/internal/scserr"

// DefaultSentinel is the separator character used by Core B unless the
// caller overrides it (spec.md section 3).
const DefaultSentinel = '#'

// Table is an injective char->comp map (and its inverse), built once
// from every input byte plus the sentinel.
type Table struct {
	charToComp [256]int16 // -1 if the byte was never seen
	compToChar []byte
	sentinel   byte
	sentinelComp int
	sigma      int
}

// Build scans strs (and the sentinel byte, even if absent from strs) and
// assigns codes in first-seen order starting at the sentinel, which is
// always assigned code 0 so it sorts lexicographically before every
// input byte (the Core B index relies on this, per spec.md section 4.8).
//
// Fails with SentinelInInput if sentinel occurs in any input string, and
// with AlphabetOverflow if more than 255 distinct non-sentinel bytes are
// observed (more than 256 codes once the sentinel claims code 0).
func Build(strs [][]byte, sentinel byte) (*Table, error) {
	t := &Table{sentinel: sentinel}
	for i := range t.charToComp {
		t.charToComp[i] = -1
	}

	t.charToComp[sentinel] = 0
	t.compToChar = append(t.compToChar, sentinel)
	t.sentinelComp = 0
	next := int16(1)

	for _, s := range strs {
		for _, b := range s {
			if b == sentinel {
				return nil, scserr.New(scserr.SentinelInInput, "input byte equals the configured sentinel")
			}
			if t.charToComp[b] != -1 {
				continue
			}
			if int(next) >= 256 {
				return nil, scserr.New(scserr.AlphabetOverflow, "more than 256 distinct bytes observed")
			}
			t.charToComp[b] = next
			t.compToChar = append(t.compToChar, b)
			next++
		}
	}
	t.sigma = int(next)
	return t, nil
}

// Sigma returns the size of the compacted alphabet, sentinel included.
func (t *Table) Sigma() int { return t.sigma }

// SentinelCode returns the compacted code for the sentinel (always 0).
func (t *Table) SentinelCode() int { return t.sentinelComp }

// CompToChar returns a copy of the code->byte inverse table, for
// persisting alongside a compacted text (internal/indexfile) so it can
// later be decoded without rebuilding the Table from scratch.
func (t *Table) CompToChar() []byte {
	return append([]byte(nil), t.compToChar...)
}

// Encode rewrites bytes using the table's codes. Panics (InvariantViolation)
// if a byte was never seen by Build — a programmer error per spec.md
// section 4.3's "inserting a byte outside the currently compact alphabet
// is a programmer error".
func (t *Table) Encode(s []byte) []int16 {
	out := make([]int16, len(s))
	for i, b := range s {
		c := t.charToComp[b]
		if c == -1 {
			scserr.Invariant("alphabet.Encode: byte %#x not in compacted alphabet", b)
		}
		out[i] = c
	}
	return out
}

// Decode maps a single code back to its original byte.
func (t *Table) Decode(code int16) byte {
	if int(code) < 0 || int(code) >= len(t.compToChar) {
		scserr.Invariant("alphabet.Decode: code %d out of range", code)
	}
	return t.compToChar[code]
}
