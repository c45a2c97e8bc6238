// Package ukkonen implements the Core A greedy engine of spec.md section
// 4.6 (component C7): a single reverse-BFS sweep over the Aho-Corasick
// automaton (internal/actrie) that discovers every string's successor in
// a greedy Hamiltonian path of the overlap graph, using only trie
// ancestor/descendant relationships and failure links — no suffix array
// is built for Core A.
//
// Grounded on
// _examples/original_source/tribble/find-superstring-ukkonen/find_superstring_ukkonen.cc's
// per-state L(s)/P(s) sweep, with P(s)'s batches represented as
// internal/llist sweeps (the cursor-based forward-only removal C1 is
// built for) and L(s)'s arbitrary-position deletion (the "L-inverse map"
// spec.md section 4.6 step 1(e) calls for) represented with the standard
// library's container/list, since no pack repo implements a
// handle-addressable doubly linked list and the stdlib type is the
// idiomatic fit for O(1) removal by element reference.
package ukkonen

import (
	"container/list"

	"github.com/jkans/superstring-scs/internal/actrie"
	"github.com/jkans/superstring-scs/internal/chain"
	"github.com/jkans/superstring-scs/internal/llist"
	"github.com/jkans/superstring-scs/internal/scserr"
)

// lRef records one (list, element) membership so a string index can be
// removed from every L(s) list it appears in without a linear search.
type lRef struct {
	owner *list.List
	elem  *list.Element
}

// batch is one generation of string indices handed up through a failure
// link: a fixed snapshot (items) paired with a C1 list tracking which
// positions are still live.
type batch struct {
	cursor *llist.List
	items  []int
}

func newBatch(items []int) *batch {
	if len(items) == 0 {
		return nil
	}
	return &batch{cursor: llist.New(len(items)), items: append([]int(nil), items...)}
}

func (b *batch) size() int { return b.cursor.Size() }

// Engine runs the C7 sweep over a finalized automaton.
type Engine struct {
	trie *actrie.Trie

	lLists  []*list.List    // per state, string indices in its subtree
	inverse map[int][]lRef // string index -> its elements across every L(s)
	p       [][]*batch      // per state, FIFO queue of batches

	first, last                   []int // chain endpoints, indexed by local string index
	leftAvailable, rightAvailable []bool

	localOf map[int]int // original string index -> local (0..m-1) index
	origOf  []int       // local index -> original string index
}

// Build seeds L(s) and the initial P(s) batches from the finalized trie's
// terminal states. Only strings that survived antichain insertion (i.e.
// still have a terminal state) participate; absorbed/duplicate indices
// are the caller's concern (internal/actrie.CoveringString resolves
// them).
func Build(trie *actrie.Trie) *Engine {
	numStates := trie.NumStates()
	e := &Engine{
		trie:    trie,
		lLists:  make([]*list.List, numStates),
		inverse: make(map[int][]lRef),
		p:       make([][]*batch, numStates),
		localOf: make(map[int]int),
	}
	for s := 0; s < numStates; s++ {
		e.lLists[s] = list.New()
	}

	// Exact duplicates share one terminal; only the first index in its
	// emits list takes part in the sweep.
	terminals := trie.FinalStatesInBFSOrder()
	for _, t := range terminals {
		for _, idx := range trie.Emits(t)[:1] {
			local := len(e.origOf)
			e.localOf[idx] = local
			e.origOf = append(e.origOf, idx)

			for ancestor := t; ; ancestor = trie.Parent(ancestor) {
				owner := e.lLists[ancestor]
				elem := owner.PushBack(local)
				e.inverse[local] = append(e.inverse[local], lRef{owner: owner, elem: elem})
				if ancestor == trie.Root() {
					break
				}
			}
		}
	}

	m := len(e.origOf)
	e.first = make([]int, m)
	e.last = make([]int, m)
	e.leftAvailable = make([]bool, m)
	e.rightAvailable = make([]bool, m)
	for i := 0; i < m; i++ {
		e.first[i] = i
		e.last[i] = i
		e.leftAvailable[i] = true
		e.rightAvailable[i] = true
	}

	initItems := make(map[int][]int)
	for _, t := range terminals {
		for _, idx := range trie.Emits(t)[:1] {
			f := trie.Failure(t)
			initItems[f] = append(initItems[f], e.localOf[idx])
		}
	}
	for state, items := range initItems {
		if b := newBatch(items); b != nil {
			e.p[state] = append(e.p[state], b)
		}
	}

	return e
}

// OriginalIndex maps a local (chainer) string index back to its original
// input string index.
func (e *Engine) OriginalIndex(local int) int { return e.origOf[local] }

// NumStrings returns the number of surviving (non-absorbed) strings the
// sweep operates over.
func (e *Engine) NumStrings() int { return len(e.origOf) }

// Run performs the single reverse-BFS sweep, emitting accepted merges
// into chainer (sized NumStrings()). chainer must already be constructed
// via chain.New(e.NumStrings()).
func (e *Engine) Run(chainer *chain.Chainer) {
	order := e.trie.StatesInBFSOrder()
	for i := len(order) - 1; i >= 0; i-- {
		e.processState(order[i], chainer)
	}
}

func (e *Engine) processState(s int, chainer *chain.Chainer) {
	queue := e.p[s]
	depth := e.trie.Depth(s)

	for _, b := range queue {
		elem := e.lLists[s].Front()
		for elem != nil {
			next := elem.Next()

			if b.size() == 0 {
				break
			}
			b.cursor.RestartFromHead()
			ii := b.items[b.cursor.Current()]
			stringIdx := elem.Value.(int)

			if e.first[ii] == stringIdx {
				if b.size() == 1 {
					elem = next
					continue
				}
				b.cursor.Advance()
				ii = b.items[b.cursor.Current()]
			}

			b.cursor.AdvanceAndMarkSkipped()

			if e.leftAvailable[ii] && e.rightAvailable[stringIdx] {
				if chainer.Accept(ii, stringIdx, depth) {
					e.leftAvailable[ii] = false
					e.rightAvailable[stringIdx] = false
					e.first[e.last[stringIdx]] = e.first[ii]
					e.last[e.first[ii]] = e.last[stringIdx]
					e.deleteFromAllLLists(stringIdx)
				}
			}

			elem = next
		}
	}

	var remaining []*batch
	for _, b := range queue {
		if b.size() > 0 {
			remaining = append(remaining, b)
		}
	}
	if len(remaining) > 0 {
		f := e.trie.Failure(s)
		if s == e.trie.Root() {
			f = e.trie.Root()
		}
		e.p[f] = append(e.p[f], remaining...)
	}
}

// deleteFromAllLLists removes local string index idx from every L(s)
// list it was inserted into, per spec.md section 4.6 step 1(e): an O(1)
// removal per list via the element references recorded at Build time.
func (e *Engine) deleteFromAllLLists(idx int) {
	refs, ok := e.inverse[idx]
	if !ok {
		scserr.Invariant("ukkonen: string %d has no L-list memberships to remove", idx)
	}
	for _, ref := range refs {
		ref.owner.Remove(ref.elem)
	}
	delete(e.inverse, idx)
}
