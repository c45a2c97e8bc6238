package verify

import (
	"testing"

	"github.com/jkans/superstring-scs/internal/alphabet"
	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/reader"
)

// buildCandidateIndex builds a single-sequence fmindex over candidate the
// same way create-index would (alphabet compaction, trailing sentinel),
// mirroring internal/coreb.BuildText's layout for a single string.
func buildCandidateIndex(t *testing.T, candidate string) (*fmindex.Index, func(byte) (byte, bool)) {
	t.Helper()
	table, err := alphabet.Build([][]byte{[]byte(candidate)}, alphabet.DefaultSentinel)
	if err != nil {
		t.Fatalf("alphabet.Build: %v", err)
	}
	codes := table.Encode([]byte(candidate))
	text := make([]byte, 0, len(codes)+1)
	for _, c := range codes {
		text = append(text, byte(c))
	}
	text = append(text, byte(table.SentinelCode()))
	ix := fmindex.Build(text, table.Sigma())
	return ix, CodeLookup(table.CompToChar())
}

func TestRunAllPresent(t *testing.T) {
	ix, charCode := buildCandidateIndex(t, "ACAGTC")
	records := []reader.Record{
		{ID: "a", Seq: []byte("ACAG")},
		{ID: "b", Seq: []byte("CAGT")},
		{ID: "c", Seq: []byte("AGTC")},
	}
	rep := Run(ix, charCode, records)
	if !rep.OK() {
		t.Fatalf("expected all records to verify, got failures: %+v", rep.Failures)
	}
	if rep.Checked != 3 {
		t.Fatalf("expected 3 checked records, got %d", rep.Checked)
	}
}

func TestRunReportsMissingRecord(t *testing.T) {
	ix, charCode := buildCandidateIndex(t, "ACAGTC")
	records := []reader.Record{
		{ID: "a", Seq: []byte("ACAG")},
		{ID: "missing", Seq: []byte("GGGG")},
	}
	rep := Run(ix, charCode, records)
	if rep.OK() {
		t.Fatalf("expected a failure for the missing record")
	}
	if len(rep.Failures) != 1 || rep.Failures[0].ID != "missing" {
		t.Fatalf("expected a single failure for id %q, got %+v", "missing", rep.Failures)
	}
}

func TestRunReportsUnknownByte(t *testing.T) {
	ix, charCode := buildCandidateIndex(t, "ACAGTC")
	records := []reader.Record{
		{ID: "has-n", Seq: []byte("ACNG")},
	}
	rep := Run(ix, charCode, records)
	if rep.OK() {
		t.Fatalf("expected a failure for a byte absent from the candidate's alphabet")
	}
}
