package alphabet

import (
	"testing"

	"github.com/jkans/superstring-scs/internal/scserr"
)

func TestBuildAndRoundTrip(t *testing.T) {
	strs := [][]byte{[]byte("ACAG"), []byte("CAGT"), []byte("AGTC")}
	tbl, err := Build(strs, DefaultSentinel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tbl.SentinelCode() != 0 {
		t.Fatalf("sentinel code = %d, want 0", tbl.SentinelCode())
	}
	encoded := tbl.Encode([]byte("ACAG"))
	for i, c := range encoded {
		if got := tbl.Decode(c); got != "ACAG"[i] {
			t.Fatalf("round-trip mismatch at %d: got %q want %q", i, got, "ACAG"[i])
		}
	}
}

func TestIdempotence(t *testing.T) {
	strs := [][]byte{[]byte("AACA"), []byte("CAAT"), []byte("AT")}
	t1, err := Build(strs, DefaultSentinel)
	if err != nil {
		t.Fatalf("Build #1: %v", err)
	}
	t2, err := Build(strs, DefaultSentinel)
	if err != nil {
		t.Fatalf("Build #2: %v", err)
	}
	if t1.Sigma() != t2.Sigma() {
		t.Fatalf("sigma mismatch: %d vs %d", t1.Sigma(), t2.Sigma())
	}
	for b := 0; b < 256; b++ {
		if t1.charToComp[b] != t2.charToComp[b] {
			t.Fatalf("code mismatch for byte %d: %d vs %d", b, t1.charToComp[b], t2.charToComp[b])
		}
	}
}

func TestSentinelInInputRejected(t *testing.T) {
	strs := [][]byte{[]byte("AC#AG")}
	_, err := Build(strs, DefaultSentinel)
	if err == nil {
		t.Fatalf("expected SentinelInInput error")
	}
	var se *scserr.Error
	if !asError(err, &se) || se.Kind != scserr.SentinelInInput {
		t.Fatalf("expected SentinelInInput, got %v", err)
	}
}

func TestFullByteRangeFitsExactly(t *testing.T) {
	// A byte alphabet can hold at most 256 distinct values, so the
	// sentinel plus every remaining byte value fits exactly at sigma=256
	// without overflowing (AlphabetOverflow only fires above 256, which
	// is unreachable for an 8-bit alphabet plus a sentinel drawn from
	// it — this exercises the boundary instead).
	buf := make([]byte, 0, 255)
	for b := 0; b < 256; b++ {
		if byte(b) == DefaultSentinel {
			continue
		}
		buf = append(buf, byte(b))
	}
	tbl, err := Build([][]byte{buf}, DefaultSentinel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tbl.Sigma() != 256 {
		t.Fatalf("sigma = %d, want 256", tbl.Sigma())
	}
}

func asError(err error, target **scserr.Error) bool {
	if e, ok := err.(*scserr.Error); ok {
		*target = e
		return true
	}
	return false
}
