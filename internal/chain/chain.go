// Package chain implements the superstring chainer of spec.md section
// 4.7 (component C8): the single piece of bookkeeping shared by both
// Core A's Ukkonen engine and Core B's suffix-link sweep. It accepts
// (left, right, overlap) candidate emissions, rejecting cycles and
// already-claimed right ends, and assembles the final superstring once
// every live string has either been consumed or found to have no
// partner.
//
// Grounded on
// _examples/original_source/tribble/find-superstring/superstring_callback.cc's
// accept/reject bookkeeping (leftend/rightend chain-splicing,
// right_available tracking) and find_superstring.hh's
// find_superstring_match_callback contract; the right-availability
// bit-vector is backed by internal/unionfind so enumerating chain starts
// at assembly time can skip consumed positions in amortized near-constant
// time per spec.md section 9's note on C2's intended use.
package chain

import (
	"github.com/jkans/superstring-scs/internal/scserr"
	"github.com/jkans/superstring-scs/internal/unionfind"
)

// Chainer tracks the partial-chain endpoints and per-string next/overlap
// pointers for n strings (indexed 0..n-1).
type Chainer struct {
	n             int
	rightAvail    []bool
	leftend       []int
	rightend      []int
	next          []int
	overlap       []int
	rightConsumed *unionfind.UnionFind
}

// New allocates a Chainer for n strings, each initially its own
// singleton chain.
func New(n int) *Chainer {
	c := &Chainer{
		n:             n,
		rightAvail:    make([]bool, n),
		leftend:       make([]int, n),
		rightend:      make([]int, n),
		next:          make([]int, n),
		overlap:       make([]int, n),
		rightConsumed: unionfind.New(n),
	}
	for i := 0; i < n; i++ {
		c.rightAvail[i] = true
		c.leftend[i] = i
		c.rightend[i] = i
		c.next[i] = -1
	}
	return c
}

// RightAvailable reports whether right has not yet been claimed as the
// right side of an accepted merge.
func (c *Chainer) RightAvailable(i int) bool { return c.rightAvail[i] }

// NextRightAvailable returns the smallest index >= i that is still
// right-available, or n if none remains, in amortised near-constant
// time via the consumed-run union-find (spec.md section 4.7's callback
// retries a candidate range by repeatedly asking for the next available
// right end, mirroring superstring_callback.cc's get_next_right_available
// but without its linear scan).
func (c *Chainer) NextRightAvailable(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= c.n {
		return c.n
	}
	return c.rightConsumed.NextRightAvailable(i)
}

// Accept applies spec.md section 4.7's acceptance contract for a
// candidate (left, right, overlap) emission: right must still be
// available and accepting must not close a cycle (leftend[left] == right
// would mean right already starts the same chain left ends). Returns
// whether the merge was accepted.
func (c *Chainer) Accept(left, right, overlapLen int) bool {
	if c.next[left] != -1 {
		scserr.Invariant("chain.Accept: left %d already has an outgoing merge", left)
	}
	if !c.rightAvail[right] {
		return false
	}
	if c.leftend[left] == right {
		return false
	}

	c.next[left] = right
	c.overlap[left] = overlapLen
	c.rightAvail[right] = false
	c.rightConsumed.MarkConsumed(right)

	oldRightendOfRight := c.rightend[right]
	oldLeftendOfLeft := c.leftend[left]
	c.leftend[oldRightendOfRight] = oldLeftendOfLeft
	c.rightend[oldLeftendOfLeft] = oldRightendOfRight
	return true
}

// Overlap returns the recorded overlap length for left's outgoing merge,
// or 0 if left has none.
func (c *Chainer) Overlap(left int) int { return c.overlap[left] }

// Next returns left's chain successor, or -1 if left is a chain end.
func (c *Chainer) Next(left int) int { return c.next[left] }

// Chains enumerates every maximal chain as an ordered slice of string
// indices, one per chain start (a string still right-available, i.e.
// never claimed as anyone's merge target).
func (c *Chainer) Chains() [][]int {
	if c.n > 0 && c.NextRightAvailable(0) >= c.n {
		scserr.Invariant("chain.Chains: no chain start among %d strings", c.n)
	}
	var chains [][]int
	seen := make([]bool, c.n)
	for start := c.NextRightAvailable(0); start < c.n; start = c.NextRightAvailable(start + 1) {
		var chainLine []int
		i := start
		for {
			if seen[i] {
				scserr.Invariant("chain.Chains: cycle detected starting at %d", start)
			}
			seen[i] = true
			chainLine = append(chainLine, i)
			if c.next[i] == -1 {
				break
			}
			i = c.next[i]
		}
		chains = append(chains, chainLine)
	}
	// Every string must belong to exactly one chain; a count mismatch
	// means some string was neither a chain start nor reachable from one,
	// which would indicate a cyclic or malformed next[] graph.
	total := 0
	for _, ch := range chains {
		total += len(ch)
	}
	if total != c.n {
		scserr.Invariant("chain.Chains: %d strings accounted for, want %d", total, c.n)
	}
	return chains
}

// Assemble concatenates the strings named by a single chain (as returned
// by Chains) into the superstring fragment it represents: the first
// string in full, then every subsequent string from its recorded overlap
// offset onward.
func Assemble(chainLine []int, strings func(i int) []byte, overlapOf func(i int) int) []byte {
	if len(chainLine) == 0 {
		return nil
	}
	out := append([]byte(nil), strings(chainLine[0])...)
	for k := 1; k < len(chainLine); k++ {
		prev := chainLine[k-1]
		cur := chainLine[k]
		ov := overlapOf(prev)
		s := strings(cur)
		if ov > len(s) {
			scserr.Invariant("chain.Assemble: overlap %d exceeds string %d length %d", ov, cur, len(s))
		}
		out = append(out, s[ov:]...)
	}
	return out
}
