package ingest

import (
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/share"
)

// Counts extracts (label, count) pairs from a table. Labels are trimmed,
// counts coerced with ToNonNegativeInt, and repeated labels summed in
// first-seen order.
func Counts(t *Table, categoryColumns, countColumns []string) ([]model.CategoryCount, error) {
	catIdx, err := t.Column(categoryColumns...)
	if err != nil {
		return nil, err
	}
	countIdx, err := t.Column(countColumns...)
	if err != nil {
		return nil, err
	}

	tally := share.NewTally()
	for _, row := range t.Rows {
		tally.Add(row[catIdx], ToNonNegativeInt(row[countIdx]))
	}
	return tally.Counts(), nil
}
