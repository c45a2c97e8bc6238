// Package actrie implements the Aho-Corasick automaton of spec.md
// section 4.3: alphabet-dense transition arrays, BFS-assigned state
// indices (parent index < child index), failure links, and an
// antichain-closed accepted set (no accepted keyword is a proper
// substring of another) once Insert, Finalize and AbsorbSubstringsOf
// have all run.
//
// The node/fail-link/output shape is grounded on
// _examples/itgcl-ahocorasick/ahocorasick.go's pre-allocated node array
// and BFS failure-link construction, generalized from its rune-keyed
// map[rune]*node to the dense []int32-per-state transition layout
// spec.md section 9 calls for (sigma threaded as an explicit
// construction parameter instead of global state), following
// original_source/tribble/find-superstring-ukkonen/transition_map.hh.
package actrie

import "github.com/jkans/superstring-scs/internal/scserr"

const noState = -1

// state is one automaton node. Parent and failure are weak,
// lookup-only back-references (plain ints), never owning.
type state struct {
	parent      int
	depth       int
	failure     int
	transitions []int32 // dense, length sigma; noState if absent
	// emits holds the string indices whose complete label ends here.
	// A non-final state has an empty (nil) slice.
	emits []int
}

// Trie is the Aho-Corasick automaton over a compacted alphabet of size
// sigma (see internal/alphabet).
type Trie struct {
	sigma   int
	states  []state
	root    int
	built   bool
	// stringsByState maps an accepted string index to its terminal
	// state. Exact duplicates share one terminal, so several indices can
	// map to the same state.
	stringsByState map[int]int
	bfsOrder       []int
	bfsOrderValid  bool
	// absorbedBy records, for a string index pruned by the antichain
	// invariant, the still-accepted string index that contains it
	// (either as the dominating longer string of case 1, or the
	// dominating existing keyword of case 2).
	absorbedBy map[int]int
}

// Absorbed reports the string index that directly guarantees idx's
// coverage when idx itself was never accepted as its own trie terminal,
// and whether one exists. Absorption chains (an absorbed string's
// dominator later absorbed by a third, longer string) are resolved by
// CoveringString.
func (t *Trie) Absorbed(idx int) (int, bool) {
	v, ok := t.absorbedBy[idx]
	return v, ok
}

// CoveringString follows the absorption chain from idx until it reaches
// a string index that is still an accepted trie terminal, returning
// that terminal string index. Used by internal/corea to report which
// still-live chain participant guarantees idx's presence in the final
// superstring.
func (t *Trie) CoveringString(idx int) int {
	seen := map[int]bool{}
	for {
		if _, ok := t.stringsByState[idx]; ok {
			return idx
		}
		if seen[idx] {
			scserr.Invariant("actrie.CoveringString: absorption cycle at %d", idx)
		}
		seen[idx] = true
		next, ok := t.absorbedBy[idx]
		if !ok {
			scserr.Invariant("actrie.CoveringString: %d has no terminal and no absorber", idx)
		}
		idx = next
	}
}

// New creates a Trie over an alphabet of the given size.
func New(sigma int) *Trie {
	t := &Trie{sigma: sigma, stringsByState: make(map[int]int)}
	t.root = t.newState(noState)
	return t
}

func (t *Trie) newState(parent int) int {
	s := state{parent: parent, failure: noState, transitions: make([]int32, t.sigma)}
	for i := range s.transitions {
		s.transitions[i] = noState
	}
	if parent != noState {
		s.depth = t.states[parent].depth + 1
	}
	t.states = append(t.states, s)
	return len(t.states) - 1
}

// NotInserted is returned by Insert when the string was rejected because
// it is a proper substring of an already-accepted keyword.
const NotInserted = noState

// Insert adds the string encoded as codes (see alphabet.Table.Encode),
// identified by stringIdx, and returns its terminal state, or
// NotInserted if the string is a proper substring of an existing
// keyword.
//
// Three cases keep the accepted set antichain-closed with respect to
// keywords on the same root-to-node path (prefix relationships); a
// keyword occurring elsewhere inside a longer one is left for
// AbsorbSubstringsOf:
//  1. The path to the new string's node passes through an existing
//     terminal, strictly above it: an existing keyword is a prefix (so
//     a substring) of the new string. The new string strictly contains
//     it, so the dominated terminal is unmarked (absorbed) and the new,
//     longer string is accepted.
//  2. The new string's node already has a terminal descendant: the new
//     string is a proper prefix (so a substring) of an existing, longer
//     keyword. The new string is rejected; NotInserted is returned.
//  3. The new string's node is already itself terminal: an identical
//     string was inserted before. The new index is folded into that
//     node's emits list rather than rejected, so every duplicate input
//     index is still accounted for by the same automaton state.
func (t *Trie) Insert(codes []int16, stringIdx int) int {
	if t.built {
		scserr.Invariant("actrie.Insert called after Finalize")
	}
	cur := t.root
	var ancestorFinal int = noState
	for _, c := range codes {
		ci := int(c)
		next := t.states[cur].transitions[ci]
		if next == noState {
			next = int32(t.newState(cur))
			t.states[cur].transitions[ci] = next
		}
		cur = int(next)
		if cur != t.root && len(t.states[cur].emits) > 0 {
			ancestorFinal = cur
		}
	}
	if len(t.states[cur].emits) > 0 {
		// Case 3: exact duplicate. ancestorFinal, if set, can only be
		// cur itself here (an antichain has no other final ancestor),
		// so there is nothing to absorb.
		t.states[cur].emits = append(t.states[cur].emits, stringIdx)
		t.stringsByState[stringIdx] = cur
		return cur
	}
	if t.hasFinalStrictlyBelow(cur) {
		// Case 2: reject, recording who dominates this string.
		if t.absorbedBy == nil {
			t.absorbedBy = make(map[int]int)
		}
		if dominator, ok := t.firstFinalBelow(cur); ok {
			t.absorbedBy[stringIdx] = dominator
		}
		return NotInserted
	}
	if ancestorFinal != noState && ancestorFinal != cur {
		// Case 1: unmark (absorb) the dominated ancestor's keywords.
		if t.absorbedBy == nil {
			t.absorbedBy = make(map[int]int)
		}
		for _, idx := range t.states[ancestorFinal].emits {
			t.absorbedBy[idx] = stringIdx
			delete(t.stringsByState, idx)
		}
		t.states[ancestorFinal].emits = nil
	}
	t.states[cur].emits = append(t.states[cur].emits, stringIdx)
	t.stringsByState[stringIdx] = cur
	return cur
}

// hasFinalStrictlyBelow reports whether node's subtree, excluding node
// itself, contains a terminal state.
func (t *Trie) hasFinalStrictlyBelow(node int) bool {
	_, ok := t.firstFinalBelow(node)
	return ok
}

// firstFinalBelow returns the string index of the first terminal state
// found strictly below node, if any.
func (t *Trie) firstFinalBelow(node int) (int, bool) {
	stack := append([]int(nil), t.childrenOf(node)...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(t.states[n].emits) > 0 {
			return t.states[n].emits[0], true
		}
		stack = append(stack, t.childrenOf(n)...)
	}
	return 0, false
}

func (t *Trie) childrenOf(node int) []int {
	var out []int
	for _, child := range t.states[node].transitions {
		if child != noState {
			out = append(out, int(child))
		}
	}
	return out
}

// AbsorbSubstringsOf scans codes (an already-inserted string's own
// encoding, identified by stringIdx) against the finalized automaton and
// absorbs every other still-accepted keyword that occurs anywhere inside
// codes, not only as a prefix. Insert's antichain cases only catch a
// dominated keyword lying on the root-to-leaf path of the dominating
// string (a prefix relationship); a keyword occurring in the interior or
// at the end of a longer string never lies on that path, so it survives
// Insert undetected. A standard Aho-Corasick scan of codes — goto with
// failure-link fallback, then walking each visited state's failure chain
// to collect output — finds every such occurrence regardless of where it
// falls, mirroring the full multi-pattern substring sweep spec.md
// section 8.1's worked examples require (e.g. "AT" inside "CAAT").
//
// Grounded on
// _examples/original_source/tribble/find-superstring-ukkonen/main.cc's
// trie.remove_substrings() call, run once per input string after every
// keyword has been inserted; the trie class implementing it is not in
// the retrieved source, so the scan itself follows the standard
// Aho-Corasick construction this package already builds for failure
// links (Finalize) and transition_map.hh's goto/fail shape.
func (t *Trie) AbsorbSubstringsOf(codes []int16, stringIdx int) {
	if !t.built {
		scserr.Invariant("actrie.AbsorbSubstringsOf called before Finalize")
	}
	cur := t.root
	for _, c := range codes {
		ci := int(c)
		for cur != t.root && t.states[cur].transitions[ci] == noState {
			cur = t.states[cur].failure
		}
		if nxt := t.states[cur].transitions[ci]; nxt != noState {
			cur = int(nxt)
		}
		for s := cur; ; s = t.states[s].failure {
			if t.states[s].depth < len(codes) && len(t.states[s].emits) > 0 {
				t.absorbEmitsAt(s, stringIdx)
			}
			if s == t.root {
				break
			}
		}
	}
}

// absorbEmitsAt unmarks every string index emitted at state as absorbed
// into stringIdx and clears the state's emits, so a later full-string
// occurrence (case 3 duplicate folding, or another AbsorbSubstringsOf
// call) never finds a stale terminal there.
func (t *Trie) absorbEmitsAt(state, stringIdx int) {
	if t.absorbedBy == nil {
		t.absorbedBy = make(map[int]int)
	}
	for _, idx := range t.states[state].emits {
		t.absorbedBy[idx] = stringIdx
		delete(t.stringsByState, idx)
	}
	t.states[state].emits = nil
}

// Finalize computes failure links via BFS (work queue seeded with
// root's children) and assigns state_index in BFS order, which is
// simply the position of each state in bfsOrder (guaranteeing parent
// index < child index since a state's children are only ever discovered
// after it is visited).
func (t *Trie) Finalize() {
	if t.built {
		return
	}
	t.states[t.root].failure = t.root

	queue := make([]int, 0, len(t.states))
	for c := 0; c < t.sigma; c++ {
		child := t.states[t.root].transitions[c]
		if child != noState {
			t.states[child].failure = t.root
			queue = append(queue, int(child))
		}
	}

	order := []int{t.root}
	for head := 0; head < len(queue); head++ {
		s := queue[head]
		order = append(order, s)
		for c := 0; c < t.sigma; c++ {
			child := t.states[s].transitions[c]
			if child == noState {
				continue
			}
			// failure(child) = transition(failure(s), c) if present
			// (and distinct from child itself), else root.
			f := t.states[s].failure
			for f != t.root && t.states[f].transitions[c] == noState {
				f = t.states[f].failure
			}
			if cand := t.states[f].transitions[c]; cand != noState && int(cand) != int(child) {
				t.states[child].failure = int(cand)
			} else {
				t.states[child].failure = t.root
			}
			queue = append(queue, int(child))
		}
	}
	t.bfsOrder = order
	t.bfsOrderValid = true
	t.built = true
}

// NumStates returns the number of states in the automaton.
func (t *Trie) NumStates() int { return len(t.states) }

// Root returns the root state index.
func (t *Trie) Root() int { return t.root }

// Parent returns node's parent, or noState for the root.
func (t *Trie) Parent(node int) int { return t.states[node].parent }

// Failure returns node's failure link (root's own failure is root).
func (t *Trie) Failure(node int) int { return t.states[node].failure }

// Depth returns node's distance from the root.
func (t *Trie) Depth(node int) int { return t.states[node].depth }

// Emits returns the string indices accepted exactly at node (nil if
// node is not a terminal state).
func (t *Trie) Emits(node int) []int { return t.states[node].emits }

// Transition returns the child reached from node on code c, or
// NotInserted if absent.
func (t *Trie) Transition(node int, c int16) int { return int(t.states[node].transitions[c]) }

// StatesInBFSOrder returns a stable, reusable ordered sequence of every
// state, parents before children.
func (t *Trie) StatesInBFSOrder() []int {
	if !t.bfsOrderValid {
		scserr.Invariant("actrie.StatesInBFSOrder called before Finalize")
	}
	return t.bfsOrder
}

// FinalStatesInBFSOrder returns the subsequence of StatesInBFSOrder that
// are terminal.
func (t *Trie) FinalStatesInBFSOrder() []int {
	var out []int
	for _, s := range t.StatesInBFSOrder() {
		if len(t.states[s].emits) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// StateForString returns the terminal state for an accepted string
// index, and whether it is still accepted (it may have been pruned by a
// later insertion that dominated it).
func (t *Trie) StateForString(stringIdx int) (int, bool) {
	s, ok := t.stringsByState[stringIdx]
	return s, ok
}
