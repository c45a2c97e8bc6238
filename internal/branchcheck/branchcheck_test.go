package branchcheck

import (
	"sort"
	"testing"

	"github.com/jkans/superstring-scs/internal/alphabet"
	"github.com/jkans/superstring-scs/internal/fmindex"
)

// buildIndex alphabet-compacts and concatenates strs (assumed already
// sorted and deduplicated, as internal/coreb would hand them in) with
// sentinel separators, returning the index and sentinel code.
func buildIndex(t *testing.T, strs []string) (*fmindex.Index, byte) {
	t.Helper()
	var byteStrs [][]byte
	for _, s := range strs {
		byteStrs = append(byteStrs, []byte(s))
	}
	tbl, err := alphabet.Build(byteStrs, alphabet.DefaultSentinel)
	if err != nil {
		t.Fatalf("alphabet.Build: %v", err)
	}
	sentinel := byte(tbl.SentinelCode())
	var text []byte
	for _, s := range strs {
		for _, c := range tbl.Encode([]byte(s)) {
			text = append(text, byte(c))
		}
		text = append(text, sentinel)
	}
	return fmindex.Build(text, tbl.Sigma()), sentinel
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestUniqueStringsAllClassifiedUnique(t *testing.T) {
	strs := []string{"AAT", "ATG", "TGC"}
	ix, sentinel := buildIndex(t, strs)
	res := Run(ix, sentinel, identityOrder(len(strs)), func(i int) int { return len(strs[i]) })
	for _, rec := range res.Records {
		if !rec.IsUnique {
			t.Fatalf("string %d (%q) unexpectedly flagged non-unique", rec.StringIndex, strs[rec.StringIndex])
		}
		if rec.MatchingSuffixLength <= 0 || rec.MatchingSuffixLength > rec.Length {
			t.Fatalf("string %d: matching_suffix_length %d out of [1,%d]", rec.StringIndex, rec.MatchingSuffixLength, rec.Length)
		}
	}
}

func TestEveryStringAppearsExactlyOnceInOutput(t *testing.T) {
	strs := []string{"CAT", "ATG", "TGA", "GAC"}
	ix, sentinel := buildIndex(t, strs)
	res := Run(ix, sentinel, identityOrder(len(strs)), func(i int) int { return len(strs[i]) })
	seen := make(map[int]bool)
	for _, rec := range res.Records {
		if seen[rec.StringIndex] {
			t.Fatalf("string %d appears more than once in output", rec.StringIndex)
		}
		seen[rec.StringIndex] = true
	}
	if len(seen) != len(strs) {
		t.Fatalf("expected %d records, saw %d distinct string indices", len(strs), len(seen))
	}
}

func TestOutputSortedBySAIndex(t *testing.T) {
	strs := []string{"ACGT", "CGTA", "GTAC", "TACG"}
	ix, sentinel := buildIndex(t, strs)
	res := Run(ix, sentinel, identityOrder(len(strs)), func(i int) int { return len(strs[i]) })
	if !sort.SliceIsSorted(res.Records, func(i, j int) bool { return res.Records[i].SAIndex < res.Records[j].SAIndex }) {
		t.Fatalf("records not sorted by SAIndex")
	}
}
