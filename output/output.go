/*
Package output formats mftwalk Records as the two line-oriented formats
SPEC_FULL.md §6 fixes: a quoted CSV row and a line-delimited JSON object.
Neither format is part of the core parser; both are thin, swappable
collaborators over an io.Writer, as the core's own scope note requires.
*/
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	mftwalk "github.com/ntfsutils/mftwalk"
)

// timeLayout renders a time.Time as RFC-3339 UTC with an explicit "+00:00"
// offset rather than Go's default "Z" suffix, matching SPEC_FULL.md §6.
const timeLayout = "2006-01-02T15:04:05.999999999+00:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// csvQuote wraps s in double quotes, doubling any embedded quote per the CSV
// escaping convention (RFC 4180), not Go's backslash-escaped %q syntax.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVWriter writes Records as one quoted CSV row per call to Write.
//
// encoding/csv is not used here: its Writer decides quoting per field based
// on content (commas/quotes/newlines), while SPEC_FULL.md's row format
// quotes path/filename/timestamp columns unconditionally and leaves
// entry_id/is_file/is_deleted bare — a layout encoding/csv has no option to
// produce directly. Hand-formatting the fixed eight-column row is simpler
// and more precise than fighting the stdlib writer's quoting heuristics.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter returns a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write emits one CSV row for rec, LF-terminated.
func (c *CSVWriter) Write(rec mftwalk.Record) error {
	_, err := fmt.Fprintf(c.w, "%d,%s,%t,%t,%s,%s,%s,%s\n",
		rec.EntryID,
		csvQuote(rec.Path),
		rec.IsFile,
		rec.IsDeleted,
		csvQuote(rec.Filename),
		csvQuote(formatTime(rec.Created)),
		csvQuote(formatTime(rec.Modified)),
		csvQuote(formatTime(rec.Accessed)),
	)
	return err
}

// JSONWriter writes Records as line-delimited JSON objects.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter returns a JSONWriter that writes to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

type jsonRecord struct {
	EntryID   uint64 `json:"entry_id"`
	Path      string `json:"path"`
	IsFile    bool   `json:"is_file"`
	IsDeleted bool   `json:"is_deleted"`
	Filename  string `json:"filename"`
	Created   string `json:"created"`
	Modified  string `json:"modified"`
	Accessed  string `json:"accessed"`
}

// Write emits one JSON object line for rec.
func (j *JSONWriter) Write(rec mftwalk.Record) error {
	return j.enc.Encode(jsonRecord{
		EntryID:   rec.EntryID,
		Path:      rec.Path,
		IsFile:    rec.IsFile,
		IsDeleted: rec.IsDeleted,
		Filename:  rec.Filename,
		Created:   formatTime(rec.Created),
		Modified:  formatTime(rec.Modified),
		Accessed:  formatTime(rec.Accessed),
	})
}
