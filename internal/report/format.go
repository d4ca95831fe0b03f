// Package report renders comparisons, snapshot changesets and fetched
// listings as HTML, text tables, markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format is an output format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Extension returns the file extension used when a report is written to
// the result directory.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// ParseFormat validates s against the allowed formats. An empty string
// parses to the empty format.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	format := Format(strings.ToLower(s))
	if format == "" {
		return "", nil
	}
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("invalid format %q: must be one of: %s", s, strings.Join(names, ", "))
}

// DetectFormat returns explicit when set, text when out is a terminal and
// JSON otherwise.
func DetectFormat(explicit Format, out *os.File) Format {
	if explicit != "" {
		return explicit
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatText
	}
	return FormatJSON
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
