// Package reader implements the FASTA and line-oriented text readers
// spec.md section 6 treats as input formats. Each format is parsed by
// one goroutine that pushes owned Records over a channel, in the style
// of eutils/fasta.go's FASTAConverter.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jkans/superstring-scs/internal/scserr"
)

// Format selects the input syntax (spec.md section 6).
type Format int

const (
	FASTA Format = iota
	Text
)

// Record is one parsed input sequence plus its source identifier, used
// for diagnostics (e.g. verify-superstring's per-string failure report).
type Record struct {
	ID  string
	Seq []byte
}

// bufPool supplies the scratch []byte buffers the FASTA reader
// accumulates sequence lines into. Nothing returns buffers to it (put
// has no caller), so it does not limit how many buffers are live.
type bufPool struct {
	pool sync.Pool
}

func newBufPool() *bufPool {
	return &bufPool{pool: sync.Pool{New: func() any { return make([]byte, 0, 256) }}}
}

func (p *bufPool) get() []byte  { return p.pool.Get().([]byte)[:0] }
func (p *bufPool) put(b []byte) { p.pool.Put(b) } //nolint:unused // currently has no caller

// ReadAll parses every record from r according to format. It is the
// synchronous façade over the channel pipeline: callers that want a
// streaming consumer should use Stream directly instead.
func ReadAll(r io.Reader, format Format, caseSensitive bool) ([]Record, error) {
	var out []Record
	var streamErr error
	for rec := range Stream(r, format, caseSensitive, &streamErr) {
		out = append(out, rec)
	}
	if streamErr != nil {
		return nil, streamErr
	}
	return out, nil
}

// Stream dispatches to the FASTA or text tokenizer/streamer pipeline. If
// a BadFormat error occurs it is written to *errOut once the channel
// closes; callers must drain the channel fully before inspecting errOut.
func Stream(r io.Reader, format Format, caseSensitive bool, errOut *error) <-chan Record {
	switch format {
	case FASTA:
		return streamFASTA(r, caseSensitive, errOut)
	case Text:
		return streamText(r, caseSensitive, errOut)
	default:
		out := make(chan Record)
		close(out)
		*errOut = scserr.New(scserr.BadFormat, fmt.Sprintf("unknown source format %d", format))
		return out
	}
}

// streamFASTA tokenizes ">id title\n" defline markers and accumulates
// sequence lines, after eutils/fasta.go's FASTAConverter but in a
// single goroutine that both splits the stream into lines and assembles
// and emits FASTA records. ';' lines are comments (spec.md section 6)
// and are dropped.
func streamFASTA(r io.Reader, caseSensitive bool, errOut *error) <-chan Record {
	out := make(chan Record, 16)
	pool := newBufPool()

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		var id string
		var seq []byte
		haveRecord := false

		flush := func() {
			if haveRecord && len(seq) > 0 {
				out <- Record{ID: id, Seq: append([]byte(nil), seq...)}
			}
			seq = pool.get()
			haveRecord = false
		}

		seq = pool.get()

		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, ";") {
				continue // FASTA comment line
			}
			if strings.HasPrefix(line, ">") {
				flush()
				defline := line[1:]
				id, _ = splitFirstField(defline)
				haveRecord = true
				continue
			}
			if !haveRecord {
				// sequence data before any defline: treat as anonymous record
				haveRecord = true
				id = ""
			}
			if !caseSensitive {
				line = strings.ToUpper(line)
			}
			seq = append(seq, filterSequenceBytes(line)...)
		}
		flush()

		if err := scanner.Err(); err != nil {
			*errOut = scserr.Wrap(scserr.BadFormat, "reading FASTA input", err)
		}
	}()

	return out
}

// streamText treats each input line as one sequence, with no identifier
// beyond its 0-based line number (spec.md section 6).
func streamText(r io.Reader, caseSensitive bool, errOut *error) <-chan Record {
	out := make(chan Record, 16)

	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		idx := 0
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				idx++
				continue
			}
			if !caseSensitive {
				line = strings.ToUpper(line)
			}
			out <- Record{ID: fmt.Sprintf("line%d", idx), Seq: []byte(line)}
			idx++
		}
		if err := scanner.Err(); err != nil {
			*errOut = scserr.Wrap(scserr.BadFormat, "reading text input", err)
		}
	}()

	return out
}

func splitFirstField(s string) (first, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// filterSequenceBytes keeps only letters, '*' and '-', mirroring
// eutils/fasta.go's sequence-line filter.
func filterSequenceBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '*', c == '-':
			out = append(out, c)
		}
	}
	return out
}
