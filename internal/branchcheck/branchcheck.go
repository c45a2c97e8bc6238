// Package branchcheck implements the Core B uniqueness / branch checker
// of spec.md section 4.4 (component C5): walking the compressed index of
// the sentinel-separated concatenation backward, character by character,
// to classify every input string as unique or non-unique and, for unique
// strings, locate the shortest suffix extension that pins down a single
// occurrence (matching_suffix_length / branching_suffix_length /
// matching_node).
//
// Grounded on
// _examples/original_source/tribble/find-superstring/check_non_unique_strings.cc's
// substring-range / match-range bookkeeping and its interval_symbols-driven
// branching, reshaped from sdsl's iterative linked-list sweep into
// ordinary Go recursion (internal/fmindex.Index plays the role of the
// csa_type capability bundle: backward_search, interval_symbols, wl via
// Extend). The recursion-limit heuristic of spec.md section 4.4 bounds
// stack depth on pathological repetitive input (see internal/chain's
// stress test, supplemented from original_source's gen_repetitive.cpp).
package branchcheck

import (
	"sort"

	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/packed"
	"github.com/jkans/superstring-scs/internal/scserr"
)

// recursionLimit is the recursion depth below which plain recursion is
// used; at or above it, the dominant branch (>half of the parent's
// count) is handled last, by a tail-position call that resets the depth
// counter to 0, per spec.md section 4.4.
const recursionLimit = 32

// Result bundles the classified records with the node handles their
// MatchingNode fields index into, so a later stage (internal/sufflink)
// can resolve a handle back to a concrete fmindex.Node.
type Result struct {
	Records []packed.StringRecord
	nodes   []fmindex.Node
}

// NodeAt resolves a MatchingNode handle produced by Run back to its
// concrete fmindex.Node.
func (r Result) NodeAt(handle int) fmindex.Node { return r.nodes[handle] }

// Run classifies every string named by sortedStringIdx (sortedStringIdx[r]
// is the original string index of the r-th lexicographically smallest
// distinct string baked into ix's text) and returns one StringRecord per
// entry, sorted by SAIndex (spec.md section 4.4's natural output order).
func Run(ix *fmindex.Index, sentinel byte, sortedStringIdx []int, stringLen func(int) int) Result {
	w := &walker{ix: ix, sentinel: sentinel, stringLen: stringLen}
	w.records = make([]packed.StringRecord, len(sortedStringIdx))
	w.sentinelPosToRank = make(map[int]int, len(sortedStringIdx))

	// Each string's trailing-sentinel text position is computed directly
	// from the layout ix's text was built with (sortedStringIdx[r]'s
	// encoding, length stringLen(sortedStringIdx[r]), one byte per
	// character, immediately followed by one sentinel byte, laid out back
	// to back starting at text position 0 — see internal/coreb.BuildText).
	// This must NOT be derived by walking the sentinel SA range in rank
	// order: that range's suffix-array order is the *layout* order
	// rotated (the last string in layout has nothing following its
	// sentinel, so it always sorts first), not sortedStringIdx's order,
	// since Go's suffix array here is a plain linear array with no
	// wraparound.
	textPos := 0
	for rank, idx := range sortedStringIdx {
		w.records[rank] = packed.StringRecord{StringIndex: idx, IsUnique: true, Length: stringLen(idx)}
		textPos += stringLen(idx)
		w.sentinelPosToRank[textPos] = rank
		textPos++
	}

	root := ix.Root()
	sLo, sHi, ok := ix.BackwardSearch(root.Lo, root.Hi, sentinel)
	if !ok {
		scserr.Invariant("branchcheck: no sentinel occurrences found in index")
	}
	if sHi-sLo+1 != len(sortedStringIdx) {
		scserr.Invariant("branchcheck: sentinel range size %d does not match %d strings", sHi-sLo+1, len(sortedStringIdx))
	}
	for pos := sLo; pos <= sHi; pos++ {
		rank, ok := w.sentinelPosToRank[ix.SA(pos)]
		if !ok {
			scserr.Invariant("branchcheck: sentinel occurrence at text position %d does not match a known string boundary", ix.SA(pos))
		}
		w.records[rank].SAIndex = pos
	}

	w.process(bwtRange{sLo: sLo, sHi: sHi, match: root}, 0, 0)

	sort.Slice(w.records, func(i, j int) bool { return w.records[i].SAIndex < w.records[j].SAIndex })
	return Result{Records: w.records, nodes: w.nodePool}
}

// bwtRange bundles the substring range (SA positions pinned to a string
// start `length` characters ago) and the match locus (the node reached by
// extending the free occurrence range by the same characters).
type bwtRange struct {
	sLo, sHi int
	match    fmindex.Node
}

func (r bwtRange) singular() bool { return r.sLo == r.sHi }
func (r bwtRange) count() int     { return r.sHi - r.sLo + 1 }

type walker struct {
	ix        *fmindex.Index
	sentinel  byte
	stringLen func(int) int
	records   []packed.StringRecord
	nodePool  []fmindex.Node
	// sentinelPosToRank maps the text position of a string's own
	// trailing sentinel byte to that string's rank (its index in
	// records), computed directly from the known layout (Run's
	// cumulative-length arithmetic) rather than from the sentinel SA
	// range's own rank order: that order is the layout order rotated
	// (see Run), not the identity, so it cannot be used to recover a
	// record index. A substring-range position reached after further
	// backward extension generally lies far outside the original
	// [sLo,sHi] interval (it is the SA rank of an entirely different,
	// extended pattern); this map is the only stable way back from a
	// matched occurrence to its record regardless of where in the
	// suffix array that occurrence's rank falls.
	sentinelPosToRank map[int]int
}

// recordByRank returns a pointer to the record whose rank (its position
// within sortedStringIdx, the layout order Run was given) is rank.
func (w *walker) recordByRank(rank int) *packed.StringRecord { return &w.records[rank] }

// recordAtOccurrence resolves the record for a substring-range SA
// position pos matched to the given suffix length: per the substring
// range's invariant, text position ix.SA(pos)+length (taken modulo the
// text length, since the first string is preceded by the text's final
// sentinel) always lands on the trailing sentinel of exactly one string
// (see Run's up-front sentinelPosToRank), regardless of where in the
// suffix array pos itself falls.
func (w *walker) recordAtOccurrence(pos, length int) *packed.StringRecord {
	target := (w.ix.SA(pos) + length) % w.ix.Len()
	rank, ok := w.sentinelPosToRank[target]
	if !ok {
		scserr.Invariant("branchcheck: no record sentinel at text position %d", target)
	}
	return w.recordByRank(rank)
}

// process handles one (substring range, match node) pair at the given
// matched suffix length, dispatching to the singular or branching case.
func (w *walker) process(r bwtRange, length, recursionDepth int) {
	if r.sLo > r.sHi {
		scserr.Invariant("branchcheck: inverted substring range [%d,%d]", r.sLo, r.sHi)
	}
	if r.singular() {
		w.handleSingular(r, length)
		return
	}
	w.handleBranching(r, length, recursionDepth)
}

// handleSingular follows spec.md section 4.4's singular-substring-range
// branch: there is exactly one candidate string left in r: find out what
// precedes it and either close it out as non-unique (preceding char is
// the sentinel) or extend the match locus by that character.
func (w *walker) handleSingular(r bwtRange, length int) {
	rec := w.recordAtOccurrence(r.sLo, length)

	syms := w.ix.IntervalSymbols(r.sLo, r.sHi)
	if len(syms) != 1 {
		scserr.Invariant("branchcheck: singular substring range has %d preceding symbols, want 1", len(syms))
	}
	c := syms[0].Char

	if c == w.sentinel {
		// Walked the whole string back to its own start without ever
		// isolating a narrower match: it recurs as a full internal
		// occurrence elsewhere, so it is non-unique.
		rec.IsUnique = false
		return
	}

	newMatch, landedExplicit, ok := w.ix.Extend(r.match, c)
	if !ok {
		scserr.Invariant("branchcheck: match range extension by preceding character failed")
	}
	nlo, nhi, ok := w.ix.BackwardSearch(r.sLo, r.sHi, c)
	if !ok {
		scserr.Invariant("branchcheck: substring range extension by its own preceding character failed")
	}

	if !landedExplicit || newMatch.Size() == 1 {
		// Tightest admissible locus reached: the occurrence range has
		// narrowed to (at most) this one string, so the extension
		// pins down a unique suffix starting here.
		rec.IsUnique = true
		rec.MatchingSuffixLength = length + 1
		rec.BranchingSuffixLength = length + 1
		rec.MatchingNode = w.internNode(newMatch)
		return
	}

	w.process(bwtRange{sLo: nlo, sHi: nhi, match: newMatch}, length+1, 0)
}

// handleBranching follows spec.md section 4.4's non-singular branch:
// split the substring range by its distinct preceding characters
// (interval_symbols, sorted ascending so the sentinel sorts first) and
// recurse into each, deferring the dominant sub-range to a final
// tail-position call (depth counter reset) once recursionDepth reaches
// recursionLimit.
func (w *walker) handleBranching(r bwtRange, length, recursionDepth int) {
	syms := w.ix.IntervalSymbols(r.sLo, r.sHi)
	if len(syms) == 0 {
		scserr.Invariant("branchcheck: non-singular substring range has no preceding symbols")
	}

	type branch struct {
		newS  bwtRange
		count int
		sym   byte
	}
	var branches []branch
	total := 0
	for _, s := range syms {
		count := s.Hi - s.Lo + 1
		total += count
		if s.Char == w.sentinel {
			w.closeNonUnique(s.Lo, s.Hi, length+1)
			continue
		}
		newMatch, _, ok := w.ix.Extend(r.match, s.Char)
		if !ok {
			scserr.Invariant("branchcheck: match range extension failed for symbol %d", s.Char)
		}
		branches = append(branches, branch{newS: bwtRange{sLo: s.Lo, sHi: s.Hi, match: newMatch}, count: count, sym: s.Char})
	}
	if total != r.count() {
		scserr.Invariant("branchcheck: interval_symbols partition size %d != range size %d", total, r.count())
	}

	dominant := -1
	if recursionDepth >= recursionLimit {
		for i, b := range branches {
			if b.count*2 > r.count() {
				dominant = i
				break
			}
		}
	}

	for i, b := range branches {
		if i == dominant {
			continue
		}
		if b.newS.singular() {
			w.handleSingular(b.newS, length+1)
		} else {
			w.process(b.newS, length+1, recursionDepth+1)
		}
	}
	if dominant >= 0 {
		// Tail position: the dominant (>half) branch is processed last,
		// with its depth counter reset to 0. This is still a Go call, so
		// it adds a stack frame.
		b := branches[dominant]
		if b.newS.singular() {
			w.handleSingular(b.newS, length+1)
		} else {
			w.process(b.newS, length+1, 0)
		}
	}
}

// closeNonUnique marks every record occurring in the sentinel-extended
// range [lo,hi] (matched length chars deep) as non-unique: a sentinel
// immediately precedes these matched suffixes, so each one recurs in
// full as an internal occurrence elsewhere.
func (w *walker) closeNonUnique(lo, hi, length int) {
	for pos := lo; pos <= hi; pos++ {
		w.recordAtOccurrence(pos, length).IsUnique = false
	}
}

// internNode assigns a stable opaque handle to an fmindex.Node for
// storage in packed.StringRecord.MatchingNode.
func (w *walker) internNode(n fmindex.Node) int {
	w.nodePool = append(w.nodePool, n)
	return len(w.nodePool) - 1
}
