// Package fmindex is the concrete backend behind the duck-typed
// compressed-index capability bundle spec.md sections 3 and 9 call for:
// bwt, lf/backward-search, Weiner links (wl), suffix links (sl), string
// depth, lb/rb, interval_symbols, and root. spec.md treats a succinct
// FM-index / compressed suffix tree as an external collaborator; this
// package supplies one concrete implementation rather than re-deriving
// a production succinct structure, per spec.md section 9's instruction
// to "provide one implementation over a chosen FM-index + enhanced
// suffix-tree library in the target ecosystem" — here, a from-scratch
// suffix array plus LCP array plays that role (see DESIGN.md for why
// prefix-doubling was chosen over vendoring a SA-IS implementation).
package fmindex

import (
	"sort"

	"github.com/jkans/superstring-scs/internal/scserr"
)

// Node is an opaque locus in the (explicit or, transiently, implicit)
// suffix tree over the index's text: the suffix-array interval [Lo,Hi]
// and the string-depth of the label shared by every suffix in it.
type Node struct {
	Lo, Hi, Depth int
}

// Size returns the number of suffixes covered by the node.
func (n Node) Size() int { return n.Hi - n.Lo + 1 }

// Index is an enhanced suffix array over a byte text whose alphabet is
// the dense 0..sigma-1 range produced by internal/alphabet, with symbol
// 0 reserved for the sentinel (lexicographically smallest).
type Index struct {
	text  []byte
	sigma int
	sa    []int32
	isa   []int32
	lcp   []int32
	bwt   []byte
	cum   []int64   // cum[c] = count of symbols < c across the whole text
	rank  [][]int32 // rank[c][i] = count of symbol c in bwt[0:i]
}

// Build constructs the suffix array, inverse suffix array, LCP array,
// BWT and rank tables for text (alphabet size sigma, symbol 0 = sentinel).
func Build(text []byte, sigma int) *Index {
	n := len(text)
	ix := &Index{text: text, sigma: sigma}
	ix.sa = suffixArray(text)
	ix.isa = make([]int32, n)
	for i, p := range ix.sa {
		ix.isa[p] = int32(i)
	}
	ix.lcp = kasaiLCP(text, ix.sa, ix.isa)
	ix.bwt = make([]byte, n)
	for i, p := range ix.sa {
		if p == 0 {
			ix.bwt[i] = text[n-1] // T is sentinel-terminated; wrap to last byte
		} else {
			ix.bwt[i] = text[p-1]
		}
	}
	ix.cum = make([]int64, sigma+1)
	for _, b := range text {
		ix.cum[int(b)+1]++
	}
	for c := 0; c < sigma; c++ {
		ix.cum[c+1] += ix.cum[c]
	}
	ix.rank = make([][]int32, sigma)
	for c := 0; c < sigma; c++ {
		row := make([]int32, n+1)
		for i := 0; i < n; i++ {
			row[i+1] = row[i]
			if int(ix.bwt[i]) == c {
				row[i+1]++
			}
		}
		ix.rank[c] = row
	}
	return ix
}

// Len returns the text length.
func (ix *Index) Len() int { return len(ix.text) }

// TextAt returns the raw (alphabet-compacted) byte at position pos in
// the text the index was built over.
func (ix *Index) TextAt(pos int) byte { return ix.text[pos] }

// Root returns the whole-text node, depth 0.
func (ix *Index) Root() Node { return Node{0, len(ix.sa) - 1, 0} }

// SA returns the suffix-array entry at rank i.
func (ix *Index) SA(i int) int { return int(ix.sa[i]) }

// BWT returns the Burrows-Wheeler-transform symbol at rank i.
func (ix *Index) BWT(i int) byte { return ix.bwt[i] }

func (ix *Index) rankOf(c byte, i int) int32 { return ix.rank[int(c)][i] }

// BackwardSearch extends the range [lo,hi] leftwards by character c,
// returning the new range and whether it is non-empty.
func (ix *Index) BackwardSearch(lo, hi int, c byte) (int, int, bool) {
	newLo := int(ix.cum[int(c)]) + int(ix.rankOf(c, lo))
	newHi := int(ix.cum[int(c)]) + int(ix.rankOf(c, hi+1)) - 1
	if newHi < newLo {
		return 0, 0, false
	}
	return newLo, newHi, true
}

// IntervalSymbols returns the distinct BWT symbols present in [lo,hi]
// together with their backward-extended ranges, sorted ascending by
// character code (the sentinel, code 0, sorts first).
type SymbolRange struct {
	Char   byte
	Lo, Hi int
}

func (ix *Index) IntervalSymbols(lo, hi int) []SymbolRange {
	var out []SymbolRange
	for c := 0; c < ix.sigma; c++ {
		nlo, nhi, ok := ix.BackwardSearch(lo, hi, byte(c))
		if ok {
			out = append(out, SymbolRange{Char: byte(c), Lo: nlo, Hi: nhi})
		}
	}
	return out
}

// IntervalDepth returns the string-depth (longest common prefix length)
// shared by every suffix in [lo,hi]: the full remaining suffix length
// for a singleton range, or the minimum LCP value across the range
// otherwise.
func (ix *Index) IntervalDepth(lo, hi int) int {
	if lo == hi {
		return len(ix.text) - int(ix.sa[lo])
	}
	if lo > hi {
		scserr.Invariant("fmindex.IntervalDepth: empty range lo=%d hi=%d", lo, hi)
	}
	min := int(ix.lcp[lo+1])
	for i := lo + 2; i <= hi; i++ {
		if int(ix.lcp[i]) < min {
			min = int(ix.lcp[i])
		}
	}
	return min
}

// Extend applies a Weiner link: backward-search by c from node, and
// reports whether the result lands exactly on an explicit node one
// level deeper (landedOnExplicit == false means the extension crossed
// an implicit node partway along a suffix-tree edge, per spec.md
// section 4.4).
func (ix *Index) Extend(n Node, c byte) (Node, bool, bool) {
	lo, hi, ok := ix.BackwardSearch(n.Lo, n.Hi, c)
	if !ok {
		return Node{}, false, false
	}
	depth := ix.IntervalDepth(lo, hi)
	return Node{Lo: lo, Hi: hi, Depth: depth}, depth == n.Depth+1, true
}

// SuffixLink returns the node labelled by dropping the first character
// of n's label (n.Depth-1 characters remain). sl(root) is root.
func (ix *Index) SuffixLink(n Node) Node {
	if n.Depth == 0 {
		return ix.Root()
	}
	p := int(ix.sa[n.Lo])
	if p+1 >= len(ix.text) {
		return ix.Root()
	}
	q := int(ix.isa[p+1])
	targetDepth := n.Depth - 1
	lo, hi := q, q
	for lo > 0 && int(ix.lcp[lo]) >= targetDepth {
		lo--
	}
	for hi+1 < len(ix.sa) && int(ix.lcp[hi+1]) >= targetDepth {
		hi++
	}
	return Node{Lo: lo, Hi: hi, Depth: ix.IntervalDepth(lo, hi)}
}

// Parent returns the tree-parent of n: the minimal enclosing explicit
// node with a smaller string-depth.
func (ix *Index) Parent(n Node) Node {
	root := ix.Root()
	if n.Lo == root.Lo && n.Hi == root.Hi {
		return root
	}
	lo, hi, depth := n.Lo, n.Hi, n.Depth
	for i := 0; i < len(ix.sa); i++ {
		leftLCP, rightLCP := -1, -1
		if lo > 0 {
			leftLCP = int(ix.lcp[lo])
		}
		if hi+1 < len(ix.sa) {
			rightLCP = int(ix.lcp[hi+1])
		}
		if leftLCP < 0 && rightLCP < 0 {
			return root
		}
		if leftLCP >= rightLCP {
			lo--
		} else {
			hi++
		}
		newDepth := ix.IntervalDepth(lo, hi)
		if newDepth < depth {
			return Node{Lo: lo, Hi: hi, Depth: newDepth}
		}
	}
	return root
}

// suffixArray builds the suffix array of text via prefix doubling:
// O(n log^2 n) comparison sort on successively longer rank pairs. This
// is the straightforward, easily-verified construction; DESIGN.md notes
// why the induced-sort (SA-IS) approach of the pack's suffixarr example
// was not vendored instead.
func suffixArray(text []byte) []int32 {
	n := len(text)
	sa := make([]int32, n)
	rank := make([]int, n)
	tmp := make([]int, n)
	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int(text[i])
	}

	for k := 1; k < n*2; k *= 2 {
		less := func(a, b int32) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			ra, rb := -1, -1
			if int(a)+k < n {
				ra = rank[a+int32(k)]
			}
			if int(b)+k < n {
				rb = rank[b+int32(k)]
			}
			return ra < rb
		}
		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)
		if rank[sa[n-1]] == n-1 {
			break
		}
	}
	return sa
}

// kasaiLCP computes LCP[i] = length of the common prefix of the
// suffixes at SA[i-1] and SA[i] (LCP[0] = 0), via Kasai's algorithm.
func kasaiLCP(text []byte, sa, isa []int32) []int32 {
	n := len(text)
	lcp := make([]int32, n)
	h := 0
	for i := 0; i < n; i++ {
		if isa[i] == 0 {
			h = 0
			continue
		}
		j := int(sa[isa[i]-1])
		for i+h < n && j+h < n && text[i+h] == text[j+h] {
			h++
		}
		lcp[isa[i]] = int32(h)
		if h > 0 {
			h--
		}
	}
	return lcp
}
