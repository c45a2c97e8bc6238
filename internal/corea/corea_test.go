package corea

import (
	"strings"
	"testing"

	"github.com/jkans/superstring-scs/internal/alphabet"
)

func toBytes(strs ...string) [][]byte {
	out := make([][]byte, len(strs))
	for i, s := range strs {
		out[i] = []byte(s)
	}
	return out
}

// TestWorkedExamples exercises spec.md section 8's literal end-to-end
// scenarios through the full Core A pipeline (alphabet -> trie ->
// Ukkonen sweep -> chain assembly).
func TestWorkedExamples(t *testing.T) {
	cases := []struct {
		name string
		strs []string
	}{
		{"three-way overlap", []string{"ACAG", "CAGT", "AGTC"}},
		{"substring absorbed", []string{"AACA", "CAAT", "AT"}},
		{"duplicate collapsed", []string{"AAA", "AAA"}},
		{"no overlap possible", []string{"ABCD", "EFGH"}},
		{"shorter are substrings", []string{"AAAAA", "AAAA", "AAA"}},
		{"four-way overlap", []string{"ATG", "TGC", "GCA", "CAT"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(toBytes(tc.strs...), alphabet.DefaultSentinel)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			for _, s := range tc.strs {
				if !strings.Contains(string(res.Superstring), s) {
					t.Fatalf("superstring %q does not contain input %q", res.Superstring, s)
				}
			}
		})
	}
}

func TestAbsorbedStringsReportedCoveringString(t *testing.T) {
	res, err := Run(toBytes("AACA", "CAAT", "AT"), alphabet.DefaultSentinel)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cover, ok := res.Absorbed[2] // "AT" is a substring of "CAAT"
	if !ok {
		t.Fatalf("expected AT (index 2) to be reported as absorbed")
	}
	if cover != 1 {
		t.Fatalf("expected AT absorbed into CAAT (index 1), got %d", cover)
	}
}

func TestSentinelInInputRejected(t *testing.T) {
	_, err := Run(toBytes("AB#CD", "EFGH"), alphabet.DefaultSentinel)
	if err == nil {
		t.Fatalf("expected an error for sentinel byte in input")
	}
}
