package ingest

import (
	"fmt"
	"strings"
)

// MissingFileError means the source file does not exist
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("data file not found: %s", e.Path)
}

// ParseError means the file exists but could not be turned into rows:
// undecodable bytes, a missing column, a malformed row or a bad date.
type ParseError struct {
	Path   string
	Line   int    // 1-based, 0 when not tied to a line
	Column string // empty when not tied to a column
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
