package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// SystemKey is the attribute rendered as the [SYSTEM] bracket.
const SystemKey = "system"

// MavenHandler is a slog.Handler that formats logs in Maven-style:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
//
// Groups are rendered as dotted key prefixes.
type MavenHandler struct {
	out       *output
	level     slog.Leveler
	system    string
	prefix    string // group prefix applied to record attributes
	preformat []byte // attributes added via WithAttrs, already rendered
}

// output serializes writes from every handler derived from the same root.
type output struct {
	mu        sync.Mutex
	w         io.Writer
	useColors bool
}

// NewMavenHandler creates a new Maven-style handler
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	h := &MavenHandler{
		out:   &output{w: w, useColors: isTerminal(w)},
		level: slog.LevelInfo,
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// isTerminal checks if the writer is a terminal (for color output)
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	h.colored(&buf, levelColor(r.Level), "["+levelString(r.Level)+"]")

	if h.system != "" {
		buf.WriteString(" [")
		buf.WriteString(h.system)
		buf.WriteString("]")
	}

	if !r.Time.IsZero() {
		buf.WriteByte(' ')
		h.colored(&buf, colorGray, "["+r.Time.Format("15:04:05")+"]")
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.preformat)

	r.Attrs(func(a slog.Attr) bool {
		if a.Key != SystemKey {
			appendAttr(&buf, h.prefix, a)
		}
		return true
	})
	buf.WriteByte('\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := h.out.w.Write(buf.Bytes())
	return err
}

func (h *MavenHandler) colored(buf *bytes.Buffer, color, text string) {
	if !h.out.useColors {
		buf.WriteString(text)
		return
	}
	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

// WithAttrs returns a new handler with the given attributes added. A
// top-level "system" attribute replaces the [SYSTEM] bracket.
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	var buf bytes.Buffer
	buf.Write(h.preformat)
	for _, a := range attrs {
		if a.Key == SystemKey && h.prefix == "" {
			clone.system = a.Value.String()
			continue
		}
		appendAttr(&buf, h.prefix, a)
	}
	clone.preformat = buf.Bytes()
	return &clone
}

// WithGroup returns a new handler that prefixes later keys with name.
func (h *MavenHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// appendAttr renders " key=value", flattening groups into dotted keys.
func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, groupPrefix, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format("2006-01-02T15:04:05")
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// levelColor returns the ANSI color code for a log level (Maven-style)
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

// levelString returns a short, uppercase string for the log level
func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
