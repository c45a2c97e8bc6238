// Package coreb orchestrates Core B end-to-end (spec.md section 2's
// "Data flow — Core B"): de-duplication and lexicographic sort of the
// input strings, the sentinel-separated concatenation and its fmindex,
// the branch checker's uniqueness/matching-suffix classification, the
// suffix-link sweep, and the shared chainer's final assembly.
//
// Grounded on no single teacher file, for the same reason as
// internal/corea; this package is original glue over
// internal/{alphabet,fmindex,branchcheck,sufflink,chain}.
package coreb

import (
	"bytes"
	"sort"

	"github.com/jkans/superstring-scs/internal/alphabet"
	"github.com/jkans/superstring-scs/internal/branchcheck"
	"github.com/jkans/superstring-scs/internal/chain"
	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/packed"
	"github.com/jkans/superstring-scs/internal/scserr"
	"github.com/jkans/superstring-scs/internal/sufflink"
)

// Result is Core B's end-to-end output.
type Result struct {
	Superstring []byte
	// DuplicateOf maps an input index that is a byte-for-byte duplicate
	// of an earlier input to the representative index that was actually
	// indexed and appears in Superstring.
	DuplicateOf map[int]int
	// NonUnique lists the representative indices the branch checker
	// classified as a substring of some other still-indexed string. The
	// sweep offers them no merges, but the chainer still holds every
	// indexed string, so each one is also written to Superstring in
	// full as a chain of its own.
	NonUnique []int
}

// Text builds the sentinel-separated concatenation of strs (deduplicated
// and lexicographically sorted) over the alphabet table's compacted
// codes: one sentinel byte immediately after each distinct string,
// including the last, so the backward-search-by-sentinel range used by
// internal/branchcheck and internal/sufflink has exactly one entry per
// string (the wraparound convention fmindex.Build uses for the
// full-text suffix treats the first string as "preceded" by that same
// final sentinel, so it is found the same way as every other string
// despite sitting at text position 0 — see DESIGN.md).
type Text struct {
	Bytes       []byte
	SortedOrder []int // SortedOrder[r] = representative input index of the r-th lex-smallest distinct string
	StartOf     map[int]int
	DuplicateOf map[int]int
}

// BuildText deduplicates strs by exact byte content, sorts the surviving
// representatives by their alphabet-compacted codes, and lays out the
// sentinel-separated concatenation.
//
// Sorting must follow code order rather than raw byte order:
// internal/alphabet.Build assigns codes in first-seen order (forced to
// place only the sentinel at 0), so two bytes can compare in the
// opposite order from their codes. The fmindex built over the
// concatenation's codes places suffixes in code order, so sorting by
// codes keeps SortedOrder lexicographic in the same order the index
// sees. internal/branchcheck.Run does not read ranks off the sentinel SA
// range: it locates each string's trailing sentinel from SortedOrder and
// the string lengths (the layout below).
func BuildText(strs [][]byte, table *alphabet.Table) Text {
	duplicateOf := make(map[int]int)
	seen := make(map[string]int, len(strs))
	var distinct []int
	for i, s := range strs {
		key := string(s)
		if rep, ok := seen[key]; ok {
			duplicateOf[i] = rep
			continue
		}
		seen[key] = i
		distinct = append(distinct, i)
	}

	encoded := make(map[int][]byte, len(distinct))
	for _, idx := range distinct {
		encoded[idx] = encodeBytes(table, strs[idx])
	}

	sortedOrder := append([]int(nil), distinct...)
	sort.Slice(sortedOrder, func(a, b int) bool {
		return bytes.Compare(encoded[sortedOrder[a]], encoded[sortedOrder[b]]) < 0
	})

	sentinelCode := byte(table.SentinelCode())
	startOf := make(map[int]int, len(sortedOrder))
	var buf []byte
	for _, idx := range sortedOrder {
		startOf[idx] = len(buf)
		buf = append(buf, encoded[idx]...)
		buf = append(buf, sentinelCode)
	}

	return Text{Bytes: buf, SortedOrder: sortedOrder, StartOf: startOf, DuplicateOf: duplicateOf}
}

func encodeBytes(table *alphabet.Table, s []byte) []byte {
	codes := table.Encode(s)
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = byte(c)
	}
	return out
}

// Run builds the text, the fmindex over it, runs the branch checker and
// suffix-link sweep, and assembles the resulting chains.
func Run(strs [][]byte, sentinel byte) (Result, error) {
	table, err := alphabet.Build(strs, sentinel)
	if err != nil {
		return Result{}, err
	}
	txt := BuildText(strs, table)
	ix := fmindex.Build(txt.Bytes, table.Sigma())
	return runOn(ix, byte(table.SentinelCode()), txt, func(idx int) int { return len(strs[idx]) }, func(local int) []byte {
		return strs[local]
	})
}

// runOn drives the branch check / suffix-link / chain pipeline over an
// already-built index, shared between Run (fresh build) and the
// find-superstring CLI mode (loaded from internal/indexfile). lengthOf
// returns the original byte length of an input index.
func runOn(ix *fmindex.Index, sentinelCode byte, txt Text, lengthOf func(int) int, stringAt func(int) []byte) (Result, error) {
	res := branchcheck.Run(ix, sentinelCode, txt.SortedOrder, lengthOf)

	records := append(packed.StringRecords(nil), res.Records...)
	records.SortByMatchingSuffixLength()

	saToOriginal := make(map[int]int, len(records))
	for _, r := range records {
		saToOriginal[r.SAIndex] = r.StringIndex
	}

	posToString := make(map[int]int, len(txt.StartOf))
	for idx, pos := range txt.StartOf {
		posToString[pos] = idx
	}

	localOf := make(map[int]int, len(txt.SortedOrder))
	origOfLocal := make([]int, len(txt.SortedOrder))
	for li, idx := range txt.SortedOrder {
		localOf[idx] = li
		origOfLocal[li] = idx
	}

	chainer := chain.New(len(txt.SortedOrder))

	accept := func(c sufflink.Candidate) bool {
		leftOrig, ok := saToOriginal[c.StringSAIndex]
		if !ok {
			scserr.Invariant("coreb: candidate SA index %d has no known string", c.StringSAIndex)
		}
		leftLocal := localOf[leftOrig]
		for r := c.Lb; r <= c.Rb; r++ {
			pos := ix.SA(r)
			rightOrig, ok := posToString[pos]
			if !ok {
				continue
			}
			rightLocal := localOf[rightOrig]
			if rightLocal == leftLocal {
				continue
			}
			if chainer.Accept(leftLocal, rightLocal, c.Overlap) {
				return true
			}
		}
		return false
	}

	sufflink.Run(ix, sentinelCode, records, res.NodeAt, accept)

	var nonUnique []int
	for _, r := range res.Records {
		if !r.IsUnique {
			nonUnique = append(nonUnique, r.StringIndex)
		}
	}
	sort.Ints(nonUnique)

	var out []byte
	for _, chainLine := range chainer.Chains() {
		frag := chain.Assemble(chainLine, func(local int) []byte {
			return stringAt(origOfLocal[local])
		}, chainer.Overlap)
		out = append(out, frag...)
	}

	return Result{Superstring: out, DuplicateOf: txt.DuplicateOf, NonUnique: nonUnique}, nil
}

// SentinelCompCode is the alphabet-compacted sentinel code: always 0,
// since internal/alphabet.Build assigns the sentinel the first code
// (spec.md section 4.8's "sentinel must sort lexicographically smallest").
// find-superstring reconstructs an fmindex.Index straight from a
// persisted internal/indexfile.File without rebuilding an
// internal/alphabet.Table, so it needs this constant rather than a
// Table.SentinelCode() call.
const SentinelCompCode = 0

// RunOnIndex drives the pipeline over a persisted fmindex (loaded by
// cmd/scs's find-superstring mode from internal/indexfile), given the
// deduplicated, lexicographically sorted input strings read back from
// the companion sorted-strings file (in the same order the index's text
// was laid out in, per internal/indexfile.File.SortedOrder).
func RunOnIndex(ix *fmindex.Index, sortedStrings [][]byte) (Result, error) {
	sortedOrder := make([]int, len(sortedStrings))
	startOf := make(map[int]int, len(sortedStrings))
	pos := 0
	for r, s := range sortedStrings {
		sortedOrder[r] = r
		startOf[r] = pos
		pos += len(s) + 1 // + the trailing sentinel byte
	}
	txt := Text{SortedOrder: sortedOrder, StartOf: startOf}
	return runOn(ix, SentinelCompCode, txt, func(r int) int { return len(sortedStrings[r]) }, func(r int) []byte {
		return sortedStrings[r]
	})
}
