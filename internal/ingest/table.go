package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is a decoded, comma-separated file with trimmed header and fields
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
	Lines  []int // source line of each row, for error messages
}

// Parse reads UTF-8 CSV content. Whitespace around delimiters and header
// names is dropped; every row must have as many fields as the header.
func Parse(path string, data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Err: errors.New("file is empty")}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	t := &Table{Path: path, Header: trimFields(header)}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		line, _ := r.FieldPos(0)
		t.Rows = append(t.Rows, trimFields(record))
		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

// Column returns the index of the first header matching any alias
func (t *Table) Column(aliases ...string) (int, error) {
	for _, alias := range aliases {
		want := strings.TrimSpace(alias)
		for i, h := range t.Header {
			if h == want {
				return i, nil
			}
		}
	}
	return -1, &ParseError{
		Path:   t.Path,
		Column: strings.Join(aliases, "|"),
		Err:    fmt.Errorf("column not found in header %v", t.Header),
	}
}

// Line returns the source line of row i
func (t *Table) Line(i int) int {
	if i < 0 || i >= len(t.Lines) {
		return 0
	}
	return t.Lines[i]
}

func trimFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Path: path, Err: err}
}
