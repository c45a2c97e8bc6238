// Package unionfind implements the weighted union-find with path
// compression of spec.md section 4.2, augmented with a per-root "next
// right-available position" pointer so the chainer can skip consumed
// runs in amortised near-constant time.
package unionfind

// UnionFind tracks n singletons 0..n-1. Each root carries a cached
// "next" value; when a position is marked consumed, it is unioned with
// its right neighbour and the merged root inherits the neighbour's next
// pointer, so NextRightAvailable skips whole consumed runs in one hop.
type UnionFind struct {
	parent []int
	size   []int
	next   []int
	scratch []int // reusable path-compression buffer, kept off the hot path
}

// New creates n singletons; NextRightAvailable(i) initially returns i
// for every i (nothing has been consumed yet).
func New(n int) *UnionFind {
	uf := &UnionFind{
		parent:  make([]int, n),
		size:    make([]int, n),
		next:    make([]int, n),
		scratch: make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		uf.parent[i] = i
		uf.size[i] = 1
		uf.next[i] = i
	}
	return uf
}

// Find returns the canonical representative of i's component, with
// iterative path compression via a reusable scratch buffer.
func (uf *UnionFind) Find(i int) int {
	root := i
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[i] != root {
		uf.scratch = append(uf.scratch, i)
		i = uf.parent[i]
	}
	for _, node := range uf.scratch {
		uf.parent[node] = root
	}
	uf.scratch = uf.scratch[:0]
	return root
}

// union merges the components of i and j, by size, and returns the new
// root.
func (uf *UnionFind) union(i, j int) int {
	ri, rj := uf.Find(i), uf.Find(j)
	if ri == rj {
		return ri
	}
	if uf.size[ri] < uf.size[rj] {
		ri, rj = rj, ri
	}
	uf.parent[rj] = ri
	uf.size[ri] += uf.size[rj]
	return ri
}

// MarkConsumed marks position i unavailable: it is folded into the
// component of i+1 (if i+1 is in range), and the merged root's next
// pointer is taken from i+1's root, so later queries at or below i skip
// straight past the whole consumed run. Per spec.md section 4.2, "the
// caller must ensure next[new_root] = next[right_root]" — that is done
// here automatically since i+1 is always the "right" component.
func (uf *UnionFind) MarkConsumed(i int) {
	n := len(uf.parent)
	if i+1 >= n {
		uf.next[uf.Find(i)] = n
		return
	}
	rightRoot := uf.Find(i + 1)
	rightNext := uf.next[rightRoot]
	newRoot := uf.union(i, i+1)
	uf.next[newRoot] = rightNext
}

// NextRightAvailable returns next[find(i)]: the next position at or
// after i that has not been marked consumed, or n if none remains.
func (uf *UnionFind) NextRightAvailable(i int) int {
	return uf.next[uf.Find(i)]
}
