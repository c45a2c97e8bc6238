package chain

import (
	"bytes"
	"reflect"
	"sort"
	"testing"
)

func TestAcceptRejectsCycleClosure(t *testing.T) {
	c := New(2)
	if !c.Accept(0, 1, 2) {
		t.Fatalf("expected 0->1 to be accepted")
	}
	// 1 -> 0 would close the 2-cycle (leftend[1] is now 0, the chain
	// start), so it must be rejected.
	if c.Accept(1, 0, 1) {
		t.Fatalf("expected 1->0 to be rejected as a cycle closure")
	}
}

func TestAcceptRejectsAlreadyClaimedRight(t *testing.T) {
	c := New(3)
	if !c.Accept(0, 2, 1) {
		t.Fatalf("expected 0->2 to be accepted")
	}
	if c.Accept(1, 2, 1) {
		t.Fatalf("expected second claim of right=2 to be rejected")
	}
}

func TestChainsCoverEveryString(t *testing.T) {
	c := New(4)
	c.Accept(0, 1, 1)
	c.Accept(1, 2, 1)
	c.Accept(2, 3, 1)
	chains := c.Chains()
	if len(chains) != 1 {
		t.Fatalf("expected a single chain, got %v", chains)
	}
	if !reflect.DeepEqual(chains[0], []int{0, 1, 2, 3}) {
		t.Fatalf("chain order = %v, want [0 1 2 3]", chains[0])
	}
}

func TestAssembleOverlapsCorrectly(t *testing.T) {
	// ACAG, CAGT, AGTC -> ACAGTC
	strs := [][]byte{[]byte("ACAG"), []byte("CAGT"), []byte("AGTC")}
	c := New(3)
	c.Accept(0, 1, 3) // ACAG/CAGT overlap 3
	c.Accept(1, 2, 3) // CAGT/AGTC overlap 3
	chains := c.Chains()
	if len(chains) != 1 {
		t.Fatalf("expected single chain, got %d", len(chains))
	}
	got := Assemble(chains[0], func(i int) []byte { return strs[i] }, c.Overlap)
	if string(got) != "ACAGTC" {
		t.Fatalf("assembled superstring = %q, want ACAGTC", got)
	}
}

func TestDisjointChainsEachEmitted(t *testing.T) {
	// ABCD, EFGH: no overlap, two independent chain starts.
	c := New(2)
	chains := c.Chains()
	if len(chains) != 2 {
		t.Fatalf("expected 2 independent chains, got %d", len(chains))
	}
}

// maxOverlap returns the length of the longest suffix of a that is also
// a prefix of b.
func maxOverlap(a, b []byte) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for l := max; l > 0; l-- {
		if bytes.Equal(a[len(a)-l:], b[:l]) {
			return l
		}
	}
	return 0
}

// TestChainer_Repetitive exercises the chainer against heavily
// self-similar strings (sliding k-mer windows over a short repeating
// period), the Go analogue of original_source's gen_repetitive stress
// generator: many strings share the same overlap length with many
// candidates, so the chainer's cycle/already-claimed rejections are
// exercised far more often than in the small worked examples above.
func TestChainer_Repetitive(t *testing.T) {
	const period = "ACA"
	base := bytes.Repeat([]byte(period), 6) // "ACAACAACAACAACAACA"
	const k = 4
	var strs [][]byte
	for i := 0; i+k <= len(base); i++ {
		strs = append(strs, append([]byte(nil), base[i:i+k]...))
	}
	n := len(strs)

	type cand struct{ left, right, overlap int }
	var cands []cand
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if ov := maxOverlap(strs[i], strs[j]); ov > 0 {
				cands = append(cands, cand{i, j, ov})
			}
		}
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].overlap > cands[b].overlap })

	c := New(n)
	hasOutgoing := make([]bool, n)
	for _, cd := range cands {
		if hasOutgoing[cd.left] {
			continue
		}
		if c.Accept(cd.left, cd.right, cd.overlap) {
			hasOutgoing[cd.left] = true
		}
	}

	var assembled []byte
	for _, chainLine := range c.Chains() {
		assembled = append(assembled, Assemble(chainLine, func(i int) []byte { return strs[i] }, c.Overlap)...)
		assembled = append(assembled, '|') // chain separator, not a valid overlap byte here
	}
	for _, s := range strs {
		if !bytes.Contains(assembled, s) {
			t.Fatalf("assembled chains %q do not contain input %q", assembled, s)
		}
	}
}

func TestNextRightAvailableSkipsConsumedRun(t *testing.T) {
	c := New(5)
	if got := c.NextRightAvailable(0); got != 0 {
		t.Fatalf("NextRightAvailable(0) = %d, want 0 before any merges", got)
	}
	c.Accept(4, 1, 1)
	c.Accept(1, 2, 1) // consumes 1, then 2; 0 and 3 remain available
	if got := c.NextRightAvailable(1); got != 3 {
		t.Fatalf("NextRightAvailable(1) = %d, want 3 after consuming 1 and 2", got)
	}
	if got := c.NextRightAvailable(0); got != 0 {
		t.Fatalf("NextRightAvailable(0) = %d, want 0 (still available)", got)
	}
	c.Accept(0, 3, 1)
	c.Accept(3, 4, 1)
	if got := c.NextRightAvailable(1); got != 5 {
		t.Fatalf("NextRightAvailable(1) = %d, want 5 (none remain)", got)
	}
}
