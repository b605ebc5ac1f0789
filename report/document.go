// Package report renders tabular pharmacy documents as PDF, CSV and XLSX.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Organisation heads every generated document.
const Organisation = "PHARMACY MANAGEMENT SYSTEM"

// Field is a labelled value shown in the filter line or summary table.
type Field struct {
	Label string
	Value string
}

// Document is a format-neutral report.
type Document struct {
	Name        string
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	GeneratedBy string
	Filters     []Field
	Columns     []string
	Rows        [][]string
	Summary     []Field
	Notes       []string
	Narrative   string
	Footer      string
}

// FilterLine renders the filters as "Filters Applied: Status: X, Type: Y".
func (d Document) FilterLine() string {
	if len(d.Filters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(d.Filters))
	for _, f := range d.Filters {
		parts = append(parts, f.Label+": "+f.Value)
	}
	return "Filters Applied: " + strings.Join(parts, ", ")
}

// FooterLine is the closing line, defaulting to the record count.
func (d Document) FooterLine() string {
	if d.Footer != "" {
		return d.Footer
	}
	return fmt.Sprintf("Total Records: %d", len(d.Rows))
}

// Filename builds the download name for format, e.g.
// "payment-report-2025-03-01.pdf".
func (d Document) Filename(format string) string {
	name := d.Name
	if name == "" {
		name = strings.ToLower(strings.Join(strings.Fields(d.Title), "-"))
	}
	if name == "" {
		name = "report"
	}
	at := d.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%s-%s.%s", name, at.Format("2006-01-02"), format)
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body{font-family:Helvetica,Arial,sans-serif;color:#333;margin:32px}
h1{text-align:center;font-size:20px;margin:0}
h2{text-align:center;font-size:16px;margin:8px 0}
p.meta{text-align:center;font-size:11px;color:#666;margin:2px 0}
table{width:100%;border-collapse:collapse;margin-top:16px;font-size:11px}
th{background:#2563eb;color:#fff;text-align:left;padding:6px}
td{border-bottom:1px solid #e5e7eb;padding:6px}
h3{font-size:14px;margin-top:24px}
footer{margin-top:24px;text-align:center;font-size:10px;color:#666}
</style></head>
<body>
<h1>{{.Organisation}}</h1>
<h2>{{.Title}}</h2>
{{if .Subtitle}}<p class="meta">{{.Subtitle}}</p>{{end}}
<p class="meta">Generated on: {{.GeneratedOn}}</p>
{{if .GeneratedBy}}<p class="meta">Report by: {{.GeneratedBy}}</p>{{end}}
{{if .FilterLine}}<p class="meta">{{.FilterLine}}</p>{{end}}
{{if .Columns}}<table><thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{else}}<tr><td colspan="{{len .Columns}}">No records found</td></tr>{{end}}</tbody></table>{{end}}
{{if .Summary}}<h3>Summary &amp; Statistics</h3><table><tbody>{{range .Summary}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}</tbody></table>{{end}}
{{if .Notes}}<h3>Business Insights</h3><ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Narrative}}<h3>Executive Summary</h3><p>{{.Narrative}}</p>{{end}}
<footer><p>Pharmacy Management System - Confidential Report</p><p>{{.FooterLine}}</p></footer>
</body></html>`))

type documentView struct {
	Document
	Organisation string
	GeneratedOn  string
	FilterLine   string
	FooterLine   string
}

// BuildHTML renders doc as a standalone, escaped HTML page.
func BuildHTML(doc Document) (string, error) {
	at := doc.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, documentView{
		Document:     doc,
		Organisation: Organisation,
		GeneratedOn:  at.Format("02 Jan 2006 15:04"),
		FilterLine:   doc.FilterLine(),
		FooterLine:   doc.FooterLine(),
	})
	if err != nil {
		return "", fmt.Errorf("report: build html: %w", err)
	}
	return buf.String(), nil
}
