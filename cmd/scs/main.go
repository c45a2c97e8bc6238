// Command scs is the five-mode command-line driver of spec.md section 6:
// create-index, find-superstring, find-superstring-ukkonen,
// index-visualization, and verify-superstring. Mode dispatch and flag
// parsing follow cmd/rchive.go's hand-rolled os.Args walk rather than the
// standard library's flag package.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"

	"github.com/jkans/superstring-scs/internal/alphabet"
	"github.com/jkans/superstring-scs/internal/branchcheck"
	"github.com/jkans/superstring-scs/internal/chart"
	"github.com/jkans/superstring-scs/internal/coreb"
	"github.com/jkans/superstring-scs/internal/corea"
	"github.com/jkans/superstring-scs/internal/diag"
	"github.com/jkans/superstring-scs/internal/fmindex"
	"github.com/jkans/superstring-scs/internal/indexfile"
	"github.com/jkans/superstring-scs/internal/packed"
	"github.com/jkans/superstring-scs/internal/reader"
	"github.com/jkans/superstring-scs/internal/scserr"
	"github.com/jkans/superstring-scs/internal/tunables"
	"github.com/jkans/superstring-scs/internal/verify"
)

var errColor = color.New(color.FgRed, color.Bold)
var warnColor = color.New(color.FgYellow)

func main() {
	args := os.Args[1:]

	if len(args) < 1 {
		fatal(scserr.New(scserr.ModeError, "no mode given (create-index, find-superstring, find-superstring-ukkonen, index-visualization, verify-superstring)"))
	}

	// RecoverInvariant calls recover itself, so it must be the deferred
	// function, not called from inside a deferred closure.
	defer scserr.RecoverInvariant(func(e *scserr.Error) {
		errColor.Fprintf(os.Stderr, "ERROR: %s\n", e.Error())
		os.Exit(e.Kind.ExitCode())
	})

	mode := args[0]
	args = args[1:]

	var err error
	switch mode {
	case "create-index":
		err = runCreateIndex(args)
	case "find-superstring":
		err = runFindSuperstring(args)
	case "find-superstring-ukkonen":
		err = runFindSuperstringUkkonen(args)
	case "index-visualization":
		err = runIndexVisualization(args)
	case "verify-superstring":
		err = runVerifySuperstring(args)
	default:
		err = scserr.New(scserr.ModeError, fmt.Sprintf("unrecognized mode %q", mode))
	}

	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	if se, ok := err.(*scserr.Error); ok {
		errColor.Fprintf(os.Stderr, "ERROR: %s\n", se.Error())
		os.Exit(se.Kind.ExitCode())
	}
	errColor.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	os.Exit(2)
}

// flagArgs is the common shape every mode's argument loop reduces to: a
// map of consumed --flag values plus the memory-usage sidecar, in the
// style of cmd/rchive.go's "skip past argument" loop.
type flagArgs struct {
	values            map[string]string
	outputMemoryUsage string
}

// parseFlags walks args exactly like cmd/rchive.go's main(): switch on
// the current flag token, consume its value, strip both, repeat.
// Unrecognized flags are a ModeError.
func parseFlags(args []string, known ...string) (flagArgs, error) {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}
	fa := flagArgs{values: make(map[string]string)}

	for len(args) > 0 {
		flag := args[0]
		if flag == "--output-memory-usage" {
			fa.outputMemoryUsage = getStringArg(args, "--output-memory-usage path")
			args = args[2:]
			continue
		}
		if !knownSet[flag] {
			return fa, scserr.New(scserr.ModeError, fmt.Sprintf("unrecognized flag %q", flag))
		}
		fa.values[flag] = getStringArg(args, flag)
		args = args[2:]
	}
	return fa, nil
}

func getStringArg(args []string, name string) string {
	if len(args) < 2 {
		fatal(scserr.New(scserr.ModeError, fmt.Sprintf("%s is missing its value", name)))
	}
	return args[1]
}

func (fa flagArgs) require(names ...string) error {
	for _, n := range names {
		if _, ok := fa.values[n]; !ok {
			return scserr.New(scserr.ModeError, fmt.Sprintf("missing required flag %s", n))
		}
	}
	return nil
}

func parseFormat(s string) (reader.Format, error) {
	switch s {
	case "fasta":
		return reader.FASTA, nil
	case "text":
		return reader.Text, nil
	default:
		return 0, scserr.New(scserr.BadFormat, fmt.Sprintf("unknown source format %q (want fasta or text)", s))
	}
}

func parseSentinel(fa flagArgs) byte {
	if s, ok := fa.values["--sentinel"]; ok && len(s) > 0 {
		return s[0]
	}
	return alphabet.DefaultSentinel
}

func maybeWriteMemoryUsage(fa flagArgs, d chart.Data) error {
	if fa.outputMemoryUsage == "" {
		return nil
	}
	f, err := os.Create(fa.outputMemoryUsage)
	if err != nil {
		return scserr.Wrap(scserr.IoError, "creating memory usage report", err)
	}
	defer f.Close()
	return chart.Write(f, d)
}

func readRecords(path string, format reader.Format) ([]reader.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scserr.Wrap(scserr.IoError, "opening source file", err)
	}
	defer f.Close()
	return reader.ReadAll(f, format, true)
}

// runCreateIndex implements spec.md section 6's create-index mode.
func runCreateIndex(args []string) error {
	fa, err := parseFlags(args, "--source-file", "--source-format", "--index-file", "--sorted-strings-file", "--sentinel", "--debug-info")
	if err != nil {
		return err
	}
	if err := fa.require("--source-file", "--source-format", "--index-file", "--sorted-strings-file"); err != nil {
		return err
	}

	format, err := parseFormat(fa.values["--source-format"])
	if err != nil {
		return err
	}
	records, err := readRecords(fa.values["--source-file"], format)
	if err != nil {
		return err
	}
	strs := make([][]byte, len(records))
	for i, r := range records {
		strs[i] = r.Seq
	}

	sentinel := parseSentinel(fa)
	table, err := alphabet.Build(strs, sentinel)
	if err != nil {
		return err
	}
	txt := coreb.BuildText(strs, table)

	stringLengths := make([]int, len(txt.SortedOrder))
	for r, idx := range txt.SortedOrder {
		stringLengths[r] = len(strs[idx])
	}

	file := indexfile.File{
		Sentinel:      sentinel,
		Sigma:         table.Sigma(),
		DebugInfo:     fa.values["--debug-info"] == "true",
		StringLengths: stringLengths,
		SortedOrder:   txt.SortedOrder,
		Text:          txt.Bytes,
		CompToChar:    table.CompToChar(),
	}
	if err := indexfile.Save(fa.values["--index-file"], file); err != nil {
		return err
	}

	if err := writeSortedStrings(fa.values["--sorted-strings-file"], strs, txt.SortedOrder); err != nil {
		return err
	}

	return maybeWriteMemoryUsage(fa, chart.Data{Snapshot: diag.Take(), Sigma: table.Sigma(), TextBytes: len(txt.Bytes)})
}

// runFindSuperstring implements spec.md section 6's find-superstring mode
// (Core B end-to-end, loaded from a persisted index).
func runFindSuperstring(args []string) error {
	fa, err := parseFlags(args, "--index-file", "--sorted-strings-file", "--output-file")
	if err != nil {
		return err
	}
	if err := fa.require("--index-file", "--sorted-strings-file"); err != nil {
		return err
	}

	file, err := indexfile.Load(fa.values["--index-file"])
	if err != nil {
		return err
	}
	ix := fmindex.Build(file.Text, file.Sigma)

	sortedStrings, err := readSortedStrings(fa.values["--sorted-strings-file"])
	if err != nil {
		return err
	}

	res, err := coreb.RunOnIndex(ix, sortedStrings)
	if err != nil {
		return err
	}

	if err := writeOutput(fa.values["--output-file"], res.Superstring); err != nil {
		return err
	}
	return maybeWriteMemoryUsage(fa, chart.Data{Snapshot: diag.Take(), Sigma: file.Sigma, TextBytes: len(file.Text)})
}

// runFindSuperstringUkkonen implements spec.md section 6's
// find-superstring-ukkonen mode (Core A end-to-end).
func runFindSuperstringUkkonen(args []string) error {
	fa, err := parseFlags(args, "--source-file", "--source-format", "--output-file", "--sentinel")
	if err != nil {
		return err
	}
	if err := fa.require("--source-file", "--source-format"); err != nil {
		return err
	}

	format, err := parseFormat(fa.values["--source-format"])
	if err != nil {
		return err
	}
	records, err := readRecords(fa.values["--source-file"], format)
	if err != nil {
		return err
	}
	strs := make([][]byte, len(records))
	for i, r := range records {
		strs[i] = r.Seq
	}

	res, err := corea.Run(strs, parseSentinel(fa))
	if err != nil {
		return err
	}

	if err := writeOutput(fa.values["--output-file"], res.Superstring); err != nil {
		return err
	}
	return maybeWriteMemoryUsage(fa, chart.Data{Snapshot: diag.Take()})
}

// runIndexVisualization implements spec.md section 6's
// index-visualization mode: reload the persisted index, recompute the
// branch-checker classification for display, and render the HTML report.
func runIndexVisualization(args []string) error {
	fa, err := parseFlags(args, "--index-file", "--memory-chart-file")
	if err != nil {
		return err
	}
	if err := fa.require("--index-file", "--memory-chart-file"); err != nil {
		return err
	}

	file, err := indexfile.Load(fa.values["--index-file"])
	if err != nil {
		return err
	}
	ix := fmindex.Build(file.Text, file.Sigma)

	rankOrder := make([]int, len(file.SortedOrder))
	for r := range rankOrder {
		rankOrder[r] = r
	}
	records := classifyForDisplay(ix, file, rankOrder)

	f, err := os.Create(fa.values["--memory-chart-file"])
	if err != nil {
		return scserr.Wrap(scserr.IoError, "creating memory chart file", err)
	}
	defer f.Close()

	data := chart.Data{
		Snapshot:  diag.Take(),
		Rows:      chart.FromRecords(records),
		Sigma:     file.Sigma,
		TextBytes: len(file.Text),
	}
	return chart.Write(f, data)
}

// classifyForDisplay recovers the same packed.StringRecord rows
// find-superstring's Core B path computes internally, so
// index-visualization can show uniqueness per string without persisting
// the derived classification in the index file itself.
func classifyForDisplay(ix *fmindex.Index, file indexfile.File, rankOrder []int) []packed.StringRecord {
	sentinelCode := byte(coreb.SentinelCompCode)
	lengthOf := func(r int) int { return file.StringLengths[r] }
	return branchcheck.Run(ix, sentinelCode, rankOrder, lengthOf).Records
}

// runVerifySuperstring implements spec.md section 6's verify-superstring
// mode: check every record in --source-file occurs as a substring of the
// candidate superstring indexed at --index-file, fanning the per-record
// checks out across an internal/tunables-sized worker pool reading off
// internal/reader's streaming channel (spec.md section 5's
// serial-load/concurrent-verify split).
func runVerifySuperstring(args []string) error {
	fa, err := parseFlags(args, "--index-file", "--source-file", "--source-format")
	if err != nil {
		return err
	}
	if err := fa.require("--index-file", "--source-file", "--source-format"); err != nil {
		return err
	}

	file, err := indexfile.Load(fa.values["--index-file"])
	if err != nil {
		return err
	}
	ix := fmindex.Build(file.Text, file.Sigma)
	charCode := verify.CodeLookup(file.CompToChar)

	format, err := parseFormat(fa.values["--source-format"])
	if err != nil {
		return err
	}
	f, err := os.Open(fa.values["--source-file"])
	if err != nil {
		return scserr.Wrap(scserr.IoError, "opening source file", err)
	}
	defer f.Close()

	var streamErr error
	recordsCh := reader.Stream(f, format, true, &streamErr)

	defaults := tunables.Compute()
	type indexed struct {
		idx int
		rec reader.Record
	}
	work := make(chan indexed, defaults.ChanDepth)
	go func() {
		defer close(work)
		i := 0
		for rec := range recordsCh {
			work <- indexed{idx: i, rec: rec}
			i++
		}
	}()

	var mu sync.Mutex
	var rep verify.Report
	var wg sync.WaitGroup
	for w := 0; w < defaults.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				mu.Lock()
				rep.Checked++
				mu.Unlock()
				if fail, failed := verify.CheckOne(ix, charCode, item.idx, item.rec); failed {
					mu.Lock()
					rep.Failures = append(rep.Failures, fail)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if streamErr != nil {
		return streamErr
	}

	sort.Slice(rep.Failures, func(i, j int) bool { return rep.Failures[i].Index < rep.Failures[j].Index })

	if rep.OK() {
		fmt.Printf("OK: %d strings verified against the candidate superstring\n", rep.Checked)
		return nil
	}
	for _, fa := range rep.Failures {
		warnColor.Fprintf(os.Stderr, "WARNING: record %q (index %d) %s at position %d\n", fa.ID, fa.Index, fa.Reason, fa.Position)
	}
	return scserr.New(scserr.BadFormat, fmt.Sprintf("%d of %d records failed verification", len(rep.Failures), rep.Checked))
}

func writeOutput(path string, out []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(out)
		if err != nil {
			return scserr.Wrap(scserr.IoError, "writing superstring to stdout", err)
		}
		fmt.Println()
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return scserr.Wrap(scserr.IoError, "creating output file", err)
	}
	defer f.Close()
	if _, err := f.Write(out); err != nil {
		return scserr.Wrap(scserr.IoError, "writing output file", err)
	}
	return nil
}

// writeSortedStrings persists the deduplicated, lexicographically sorted
// strings in rank order as plain newline-delimited text, the sidecar
// find-superstring reloads to recover literal bytes without re-running
// alphabet compaction.
func writeSortedStrings(path string, strs [][]byte, sortedOrder []int) error {
	f, err := os.Create(path)
	if err != nil {
		return scserr.Wrap(scserr.IoError, "creating sorted-strings file", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, idx := range sortedOrder {
		w.Write(strs[idx])
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return scserr.Wrap(scserr.IoError, "writing sorted-strings file", err)
	}
	return nil
}

func readSortedStrings(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scserr.Wrap(scserr.IoError, "opening sorted-strings file", err)
	}
	defer f.Close()
	var out [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		out = append(out, []byte(line))
	}
	if err := sc.Err(); err != nil {
		return nil, scserr.Wrap(scserr.IoError, "reading sorted-strings file", err)
	}
	return out, nil
}
