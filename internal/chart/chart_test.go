package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jkans/superstring-scs/internal/diag"
	"github.com/jkans/superstring-scs/internal/packed"
)

func TestWriteProducesWellFormedHTML(t *testing.T) {
	d := Data{
		Snapshot: diag.Snapshot{
			TotalMemoryGiB: 15.6,
			FreeMemoryGiB:  4.2,
			LogicalCores:   8,
			PhysicalCores:  4,
			Sockets:        1,
			CPUBrand:       "Test CPU",
		},
		Rows: FromRecords([]packed.StringRecord{
			{StringIndex: 0, Length: 4, IsUnique: true, MatchingSuffixLength: 2},
			{StringIndex: 1, Length: 5, IsUnique: false, MatchingSuffixLength: 0},
		}),
	}

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<html>") || !strings.Contains(out, "</html>") {
		t.Fatalf("output missing html wrapper: %q", out)
	}
	if !strings.Contains(out, "Test CPU") {
		t.Fatalf("output missing CPU brand")
	}
	if !strings.Contains(out, `class="unique"`) || !strings.Contains(out, `class="nonunique"`) {
		t.Fatalf("output missing expected row classes: %q", out)
	}
}

func TestFromRecordsPreservesOrderAndFields(t *testing.T) {
	rows := FromRecords([]packed.StringRecord{
		{StringIndex: 2, Length: 7, IsUnique: true, MatchingSuffixLength: 3},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.StringIndex != 2 || r.Length != 7 || !r.IsUnique || r.MatchingLen != 3 {
		t.Fatalf("unexpected row: %+v", r)
	}
}
