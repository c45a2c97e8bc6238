// Package indexfile persists and reloads a Core B index: the
// sentinel-separated concatenation's sorted, deduplicated string list,
// their lengths, and the sentinel byte used to build it. It follows
// eutils/merge.go's archive convention of writing through a parallel
// gzip stream (github.com/klauspost/pgzip) rather than the stdlib
// compress/gzip, for the same large-file throughput reason merge.go
// gives.
package indexfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/klauspost/pgzip"

	"github.com/jkans/superstring-scs/internal/scserr"
)

const magic = "SCSX"
const version = uint32(1)

// File is the on-disk shape of a Core B index: enough to reconstruct
// internal/fmindex.Index without re-running alphabet compaction or
// sorting.
type File struct {
	Sentinel      byte
	Sigma         int
	DebugInfo     bool // original_source/create_index.cc's assertions-enabled flag
	StringLengths []int
	SortedOrder   []int // SortedOrder[r] = original string index of the r-th lex-smallest string
	Text          []byte
	CompToChar    []byte // alphabet.Table's code->byte inverse, so verify-superstring can map raw input bytes to Text's codes
}

// Save writes f to path, gzip-compressed via pgzip, mirroring
// eutils/merge.go's openSaver/closeSaver pair.
func Save(path string, f File) error {
	out, err := os.Create(path)
	if err != nil {
		return scserr.Wrap(scserr.IoError, "creating index file", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	zw, err := pgzip.NewWriterLevel(bw, pgzip.BestSpeed)
	if err != nil {
		return scserr.Wrap(scserr.IoError, "initializing pgzip writer", err)
	}

	if err := writeFile(zw, f); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return scserr.Wrap(scserr.IoError, "closing pgzip writer", err)
	}
	if err := bw.Flush(); err != nil {
		return scserr.Wrap(scserr.IoError, "flushing index file", err)
	}
	return nil
}

func writeFile(w io.Writer, f File) error {
	bw := newByteWriter(w)
	bw.bytes([]byte(magic))
	bw.u32(version)
	bw.u8(f.Sentinel)
	bw.u32(uint32(f.Sigma))
	bw.bool(f.DebugInfo)
	bw.u32(uint32(len(f.StringLengths)))
	for _, l := range f.StringLengths {
		bw.u32(uint32(l))
	}
	for _, o := range f.SortedOrder {
		bw.u32(uint32(o))
	}
	bw.u32(uint32(len(f.Text)))
	bw.bytes(f.Text)
	bw.u32(uint32(len(f.CompToChar)))
	bw.bytes(f.CompToChar)
	return bw.err
}

// Load reads and decompresses an index file written by Save.
func Load(path string) (File, error) {
	in, err := os.Open(path)
	if err != nil {
		return File{}, scserr.Wrap(scserr.IoError, "opening index file", err)
	}
	defer in.Close()

	zr, err := pgzip.NewReader(bufio.NewReader(in))
	if err != nil {
		return File{}, scserr.Wrap(scserr.BadFormat, "initializing pgzip reader", err)
	}
	defer zr.Close()

	return readFile(zr)
}

func readFile(r io.Reader) (File, error) {
	br := newByteReader(r)
	got := br.bytes(4)
	if br.err == nil && string(got) != magic {
		return File{}, scserr.New(scserr.BadFormat, "index file missing magic header")
	}
	v := br.u32()
	if br.err == nil && v != version {
		return File{}, scserr.New(scserr.IndexMismatch, "index file version mismatch")
	}
	var f File
	f.Sentinel = br.u8()
	f.Sigma = int(br.u32())
	f.DebugInfo = br.boolv()
	n := int(br.u32())
	f.StringLengths = make([]int, n)
	for i := range f.StringLengths {
		f.StringLengths[i] = int(br.u32())
	}
	f.SortedOrder = make([]int, n)
	for i := range f.SortedOrder {
		f.SortedOrder[i] = int(br.u32())
	}
	textLen := int(br.u32())
	f.Text = br.bytes(textLen)
	compLen := int(br.u32())
	f.CompToChar = br.bytes(compLen)
	if br.err != nil {
		return File{}, scserr.Wrap(scserr.BadFormat, "reading index file", br.err)
	}
	return f, nil
}

// byteWriter/byteReader are small fixed-width helpers so Save/Load read
// as a flat sequence of field writes/reads instead of manual offset
// arithmetic, in the spirit of eutils/merge.go's buffered archive I/O.
type byteWriter struct {
	w   io.Writer
	err error
}

func newByteWriter(w io.Writer) *byteWriter { return &byteWriter{w: w} }

func (b *byteWriter) bytes(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}

func (b *byteWriter) u8(v byte)  { b.bytes([]byte{v}) }
func (b *byteWriter) bool(v bool) {
	if v {
		b.u8(1)
	} else {
		b.u8(0)
	}
}

func (b *byteWriter) u32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.bytes(buf[:])
}

type byteReader struct {
	r   io.Reader
	err error
}

func newByteReader(r io.Reader) *byteReader { return &byteReader{r: r} }

func (b *byteReader) bytes(n int) []byte {
	if b.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, b.err = io.ReadFull(b.r, buf)
	return buf
}

func (b *byteReader) u8() byte {
	buf := b.bytes(1)
	if len(buf) == 0 {
		return 0
	}
	return buf[0]
}

func (b *byteReader) boolv() bool { return b.u8() != 0 }

func (b *byteReader) u32() uint32 {
	buf := b.bytes(4)
	if len(buf) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}
