package indexfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.scsx")

	want := File{
		Sentinel:      0,
		Sigma:         5,
		DebugInfo:     true,
		StringLengths: []int{3, 4, 2},
		SortedOrder:   []int{2, 0, 1},
		Text:          []byte{0, 1, 2, 3, 0, 4, 1, 0},
		CompToChar:    []byte{'#', 'A', 'C', 'G', 'T'},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.scsx")
	if err := os.WriteFile(path, []byte("not a gzip stream at all"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected Load to reject a non-gzip file")
	}
}
