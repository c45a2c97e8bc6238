// Package sufflink implements the Core B suffix-link sweep of spec.md
// section 4.5 (component C6): given StringRecords sorted by
// matching_suffix_length and their matching_node loci, repeatedly follow
// suffix links to discover the longest suffix-of-i / prefix-of-j overlaps
// and hand each candidate to the chainer.
//
// Grounded on
// _examples/original_source/tribble/find-superstring/find_suffixes.cc's
// find_suffixes_with_sorted: an internal/llist sweep over the sorted
// records, one round per discarded suffix-length unit, trying the
// sentinel Weiner link before shortening via the suffix link.
package sufflink

import (
	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/llist"
	"github.com/jkans/superstring-scs/internal/packed"
)

// Candidate is a discovered suffix-of-i / prefix-of-j overlap: the
// left-hand string i (by sa_idx) overlaps, by the given length, with the
// prefix of every string whose sa_idx lies in [lb, rb].
type Candidate struct {
	StringSAIndex int
	Overlap       int
	Lb, Rb        int
}

// Accept is invoked for every candidate; returning true tells the sweep
// that a merge was accepted for this string, which removes it from
// further consideration (spec.md section 4.5).
type Accept func(c Candidate) bool

// Run drives the sweep. records must already be sorted ascending by
// MatchingSuffixLength (packed.StringRecords.SortByMatchingSuffixLength);
// nodeAt resolves a record's MatchingNode handle to a concrete
// fmindex.Node (see internal/branchcheck.Result.NodeAt).
func Run(ix *fmindex.Index, sentinel byte, records []packed.StringRecord, nodeAt func(int) fmindex.Node, accept Accept) {
	n := len(records)
	if n == 0 {
		return
	}
	// Traverse longest matching_suffix_length first: position p in the
	// list corresponds to records[n-1-p] (records is ascending, so the
	// last element is the longest).
	// Only unique records carry a MatchingNode handle; non-unique ones
	// are dropped on sight by the sweep below and never need a node.
	nodes := make([]fmindex.Node, n)
	for p := 0; p < n; p++ {
		if records[n-1-p].IsUnique {
			nodes[p] = nodeAt(records[n-1-p].MatchingNode)
		}
	}
	unique := make([]bool, n)
	for p := 0; p < n; p++ {
		unique[p] = records[n-1-p].IsUnique
	}
	sal := make([]int, n)
	for p := 0; p < n; p++ {
		sal[p] = records[n-1-p].MatchingSuffixLength
	}
	saIdx := make([]int, n)
	for p := 0; p < n; p++ {
		saIdx[p] = records[n-1-p].SAIndex
	}

	maxLength := 0
	for _, l := range sal {
		if l > maxLength {
			maxLength = l
		}
	}

	list := llist.New(n)
	if list.Size() == 0 {
		return
	}
	for cl := 0; cl < maxLength; cl++ {
		list.RestartFromHead()
		if list.Size() == 0 {
			break
		}
		remaining := maxLength - cl
		for !list.AtEnd() {
			p := list.Current()
			if !unique[p] {
				list.AdvanceAndMarkSkipped()
				continue
			}
			if sal[p] < remaining {
				break
			}

			lo, hi, ok := ix.BackwardSearch(nodes[p].Lo, nodes[p].Hi, sentinel)
			matched := false
			if ok {
				root := ix.Root()
				if !(lo == root.Lo && hi == root.Hi) {
					cand := Candidate{StringSAIndex: saIdx[p], Overlap: remaining, Lb: lo, Rb: hi}
					if accept(cand) {
						list.AdvanceAndMarkSkipped()
						matched = true
					}
				}
			}
			if matched {
				continue
			}

			nodes[p] = ix.SuffixLink(nodes[p])
			list.Advance()
		}
	}
}
