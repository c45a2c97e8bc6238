// Package verify implements the verify-superstring CLI mode of spec.md
// section 6: checking that every original input string occurs as a
// substring of a candidate superstring, via backward search over an
// fmindex.Index built over that candidate (by running create-index on
// it as a single-sequence source).
//
// Grounded on
// _examples/original_source/tribble/verify-superstring/verify_superstring.cc's
// per-record diagnostic loop (SPEC_FULL.md section C.3): rather than
// only reporting pass/fail, the negative report names which input
// string failed and where the backward search first broke down.
package verify

import (
	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/reader"
)

// Failure is one record's negative diagnostic.
type Failure struct {
	ID       string
	Index    int
	Position int // index (within the failing record) where the backward search broke down
	Reason   string
}

// Report summarizes a verify-superstring run.
type Report struct {
	Checked  int
	Failures []Failure
}

// OK reports whether every checked record was found.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// CodeLookup builds a byte->alphabet-code lookup from an
// internal/indexfile.File's persisted CompToChar inverse table, for use
// as Run's charCode parameter.
func CodeLookup(compToChar []byte) func(byte) (byte, bool) {
	var table [256]int16
	for i := range table {
		table[i] = -1
	}
	for code, ch := range compToChar {
		table[ch] = int16(code)
	}
	return func(b byte) (byte, bool) {
		c := table[b]
		if c < 0 {
			return 0, false
		}
		return byte(c), true
	}
}

// Run checks every record's sequence against ix, a candidate
// superstring's index. charCode maps a raw input byte to the
// candidate's alphabet code, or reports it as unknown (the byte never
// occurs in the candidate at all, so containment trivially fails).
func Run(ix *fmindex.Index, charCode func(byte) (byte, bool), records []reader.Record) Report {
	var rep Report
	for i, rec := range records {
		rep.Checked++
		if f, failed := CheckOne(ix, charCode, i, rec); failed {
			rep.Failures = append(rep.Failures, f)
		}
	}
	return rep
}

// CheckOne checks a single record, indexed by idx (for the resulting
// Failure's Index field), against ix. It is the unit of work
// cmd/scs's verify-superstring mode fans out across a worker pool
// (internal/tunables) while consuming internal/reader's streaming
// pipeline, per spec.md section 5's "concurrent verifying/processing
// queue".
func CheckOne(ix *fmindex.Index, charCode func(byte) (byte, bool), idx int, rec reader.Record) (Failure, bool) {
	ok, pos := contains(ix, charCode, rec.Seq)
	if ok {
		return Failure{}, false
	}
	return Failure{
		ID:       rec.ID,
		Index:    idx,
		Position: pos,
		Reason:   "not found as a substring of the candidate superstring",
	}, true
}

// contains performs a backward search of seq (right to left) over ix,
// returning whether the whole of seq occurs somewhere in ix's text, and
// if not, the position within seq where the search first failed.
func contains(ix *fmindex.Index, charCode func(byte) (byte, bool), seq []byte) (bool, int) {
	if len(seq) == 0 {
		return true, -1
	}
	root := ix.Root()
	lo, hi := root.Lo, root.Hi
	for i := len(seq) - 1; i >= 0; i-- {
		code, known := charCode(seq[i])
		if !known {
			return false, i
		}
		nlo, nhi, ok := ix.BackwardSearch(lo, hi, code)
		if !ok {
			return false, i
		}
		lo, hi = nlo, nhi
	}
	return true, -1
}
