package fmindex

import (
	"sort"
	"testing"

	"github.com/jkans/superstring-scs/internal/alphabet"
)

// buildText alphabet-compacts strs and concatenates them with sentinel
// separators, returning the Index plus the alphabet table.
func buildText(t *testing.T, strs ...string) (*Index, *alphabet.Table) {
	t.Helper()
	var byteStrs [][]byte
	for _, s := range strs {
		byteStrs = append(byteStrs, []byte(s))
	}
	tbl, err := alphabet.Build(byteStrs, alphabet.DefaultSentinel)
	if err != nil {
		t.Fatalf("alphabet.Build: %v", err)
	}
	var text []byte
	sentinel := byte(tbl.SentinelCode())
	for _, s := range strs {
		for _, c := range tbl.Encode([]byte(s)) {
			text = append(text, byte(c))
		}
		text = append(text, sentinel)
	}
	return Build(text, tbl.Sigma()), tbl
}

func suffixStrings(ix *Index) []string {
	out := make([]string, ix.Len())
	for i := 0; i < ix.Len(); i++ {
		p := ix.SA(i)
		out[i] = string(ix.text[p:])
	}
	return out
}

func TestSuffixArraySorted(t *testing.T) {
	ix, _ := buildText(t, "BANANA")
	suffixes := suffixStrings(ix)
	if !sort.StringsAreSorted(suffixes) {
		t.Fatalf("suffix array not sorted: %v", []byte(nil))
	}
	for i := 1; i < len(suffixes); i++ {
		if suffixes[i-1] >= suffixes[i] {
			t.Fatalf("suffixes not strictly increasing at %d", i)
		}
	}
}

func TestBackwardSearchFindsExactPattern(t *testing.T) {
	ix, tbl := buildText(t, "BANANA")
	node := ix.Root()
	pattern := []byte("ANA")
	var ok bool
	for i := len(pattern) - 1; i >= 0; i-- {
		code := tbl.Encode(pattern[i : i+1])[0]
		node.Lo, node.Hi, ok = ix.BackwardSearch(node.Lo, node.Hi, byte(code))
		if !ok {
			t.Fatalf("backward search failed extending with %q", pattern[i])
		}
	}
	// "ANA" occurs twice in "BANANA#"
	if node.Size() != 2 {
		t.Fatalf("expected 2 occurrences of ANA, got %d (range %d..%d)", node.Size(), node.Lo, node.Hi)
	}
}

func TestIntervalDepthLeafIsFullSuffixLength(t *testing.T) {
	ix, _ := buildText(t, "AB")
	for i := 0; i < ix.Len(); i++ {
		want := ix.Len() - ix.SA(i)
		if got := ix.IntervalDepth(i, i); got != want {
			t.Fatalf("IntervalDepth(%d,%d) = %d, want %d", i, i, got, want)
		}
	}
}

func TestSuffixLinkDropsFirstCharacter(t *testing.T) {
	ix, tbl := buildText(t, "ABCABC")
	node := ix.Root()
	pattern := []byte("ABC")
	var ok bool
	for i := len(pattern) - 1; i >= 0; i-- {
		code := tbl.Encode(pattern[i : i+1])[0]
		node, ok = func() (Node, bool) {
			lo, hi, ok := ix.BackwardSearch(node.Lo, node.Hi, byte(code))
			return Node{Lo: lo, Hi: hi, Depth: ix.IntervalDepth(lo, hi)}, ok
		}()
		if !ok {
			t.Fatalf("failed to extend with %q", pattern[i])
		}
	}
	linked := ix.SuffixLink(node)
	if linked.Depth != node.Depth-1 {
		t.Fatalf("suffix link depth = %d, want %d", linked.Depth, node.Depth-1)
	}
	// every suffix in the linked range must share the same two leading
	// codes, since sl(node) drops exactly one leading character.
	want := ix.text[ix.SA(linked.Lo) : ix.SA(linked.Lo)+linked.Depth]
	for i := linked.Lo; i <= linked.Hi; i++ {
		p := ix.SA(i)
		got := ix.text[p : p+linked.Depth]
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("suffix link range not homogeneous at rank %d", i)
			}
		}
	}
}

func TestIntervalSymbolsPartitionsRange(t *testing.T) {
	ix, _ := buildText(t, "BANANA")
	root := ix.Root()
	ranges := ix.IntervalSymbols(root.Lo, root.Hi)
	total := 0
	for _, r := range ranges {
		total += r.Hi - r.Lo + 1
	}
	if total != root.Size() {
		t.Fatalf("interval_symbols ranges cover %d of %d total suffixes", total, root.Size())
	}
}

func TestExtendDetectsImplicitCrossing(t *testing.T) {
	// "AAAA#" : "A", "AA" and "AAA" each occur at least twice, so the
	// first three extensions of the root by 'A' land on explicit nodes of
	// depth 1, 2 and 3. "AAAA" occurs only once: the fourth extension is
	// the singleton range of suffix "AAAA#" (depth 5, not 4), so it stops
	// partway along that leaf edge and must be reported as implicit.
	ix, tbl := buildText(t, "AAAA")
	codeA := byte(tbl.Encode([]byte("A"))[0])
	node := ix.Root()
	for i := 0; i < 4; i++ {
		next, explicit, ok := ix.Extend(node, codeA)
		if !ok {
			t.Fatalf("extend %d failed", i)
		}
		if i < 3 && !explicit {
			t.Fatalf("extend %d unexpectedly implicit", i)
		}
		if i == 3 && explicit {
			t.Fatalf("extend %d unexpectedly explicit (leaf-edge crossing not detected)", i)
		}
		node = next
	}
}
