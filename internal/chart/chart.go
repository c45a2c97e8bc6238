// Package chart renders the index-visualization CLI mode's report: a
// small HTML page summarizing host diagnostics (internal/diag) and the
// per-string uniqueness/overlap picture Core B produced. No pack repo
// emits HTML, so this uses the standard library's html/template for
// escaping rather than string concatenation — DESIGN.md records why no
// third-party templating or charting library from the pack applies here.
package chart

import (
	"html/template"
	"io"

	"github.com/jkans/superstring-scs/internal/diag"
	"github.com/jkans/superstring-scs/internal/packed"
	"github.com/jkans/superstring-scs/internal/scserr"
)

// Row is one string's visualization entry.
type Row struct {
	StringIndex int
	Length      int
	IsUnique    bool
	MatchingLen int
}

// Data is everything the report template needs.
type Data struct {
	Snapshot diag.Snapshot
	Rows     []Row
	// Sigma and TextBytes describe the persisted index's own memory
	// footprint (spec.md section 6's "byte footprint" requirement for
	// index-visualization), read straight off internal/indexfile.File.
	Sigma     int
	TextBytes int
}

// FromRecords adapts Core B's StringRecords into report rows, one per
// record, in the order the records are given.
func FromRecords(records []packed.StringRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			StringIndex: r.StringIndex,
			Length:      r.Length,
			IsUnique:    r.IsUnique,
			MatchingLen: r.MatchingSuffixLength,
		}
	}
	return rows
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>superstring index visualization</title>
<style>
body { font-family: monospace; }
td.unique { color: #1a7f37; }
td.nonunique { color: #cf222e; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 2px 8px; }
</style>
</head>
<body>
<h1>Host diagnostics</h1>
<ul>
<li>Mmry total: {{printf "%.2f" .Snapshot.TotalMemoryGiB}} GiB</li>
<li>Mmry free: {{printf "%.2f" .Snapshot.FreeMemoryGiB}} GiB</li>
<li>Core logical: {{.Snapshot.LogicalCores}}</li>
<li>Core physical: {{.Snapshot.PhysicalCores}}</li>
<li>Sock: {{.Snapshot.Sockets}}</li>
<li>CPU: {{.Snapshot.CPUBrand}}</li>
</ul>
<h1>Index footprint</h1>
<ul>
<li>Alphabet size (sigma): {{.Sigma}}</li>
<li>Concatenated text bytes: {{.TextBytes}}</li>
</ul>
<h1>String records</h1>
<table>
<tr><th>index</th><th>length</th><th>unique</th><th>matching suffix length</th></tr>
{{range .Rows}}<tr>
<td>{{.StringIndex}}</td>
<td>{{.Length}}</td>
{{if .IsUnique}}<td class="unique">yes</td>{{else}}<td class="nonunique">no</td>{{end}}
<td>{{.MatchingLen}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var tmpl = template.Must(template.New("chart").Parse(pageTemplate))

// Write renders the full report to w.
func Write(w io.Writer, d Data) error {
	if err := tmpl.Execute(w, d); err != nil {
		return scserr.Wrap(scserr.IoError, "rendering index visualization", err)
	}
	return nil
}
