package report

import (
	"embed"
	"html/template"
	"io"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"timeOf":        worklog.TimeOf,
	"tagList":       tagList,
	"entryDuration": entryDuration,
	"rowClass": func(c differ.Classification) string {
		if c == differ.Unchanged {
			return ""
		}
		return string(c)
	},
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// ComparisonHTML renders a comparison as a standalone HTML page.
func ComparisonHTML(w io.Writer, c *files.ComparisonFile) error {
	return templates.ExecuteTemplate(w, "comparison", struct {
		Title string
		View  ComparisonView
	}{
		Title: "Activity-Ledger Comparison Results",
		View:  NewComparisonView(c),
	})
}

// SideBySideHTML renders a snapshot changeset as two columns, original on
// the left and updated on the right.
func SideBySideHTML(w io.Writer, s SideBySide) error {
	return templates.ExecuteTemplate(w, "side_by_side", s)
}
