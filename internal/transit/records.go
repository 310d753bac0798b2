// Package transit turns subway ridership rows into per-station rankings for
// one date and one line.
package transit

import (
	"fmt"
	"time"

	"github.com/ppiankov/sharechart/internal/ingest"
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/share"
)

const (
	sourceDateLayout = "20060102"
	dayLayout        = "2006-01-02"
	monthLayout      = "2006-01"
)

// Columns lists the accepted header names for each ridership field
type Columns struct {
	Date       []string
	Line       []string
	Station    []string
	Boardings  []string
	Alightings []string
}

// ColumnsFromConfig copies the column aliases out of the transit config
func ColumnsFromConfig(cfg model.TransitConfig) Columns {
	return Columns{
		Date:       cfg.DateColumns,
		Line:       cfg.LineColumns,
		Station:    cfg.StationColumns,
		Boardings:  cfg.BoardingColumns,
		Alightings: cfg.AlightingColumns,
	}
}

// Record is one station's ridership on one day
type Record struct {
	Date       time.Time
	Line       string
	Station    string
	Boardings  int
	Alightings int
}

// Total is boardings plus alightings
func (r Record) Total() int {
	return share.AddCount(r.Boardings, r.Alightings)
}

// Day formats the record date as YYYY-MM-DD
func (r Record) Day() string {
	return r.Date.Format(dayLayout)
}

// Records converts a parsed table into ridership records. Dates must be
// YYYYMMDD; passenger counts are coerced like any other count.
func Records(t *ingest.Table, cols Columns) ([]Record, error) {
	dateIdx, err := t.Column(cols.Date...)
	if err != nil {
		return nil, err
	}
	lineIdx, err := t.Column(cols.Line...)
	if err != nil {
		return nil, err
	}
	stationIdx, err := t.Column(cols.Station...)
	if err != nil {
		return nil, err
	}
	boardIdx, err := t.Column(cols.Boardings...)
	if err != nil {
		return nil, err
	}
	alightIdx, err := t.Column(cols.Alightings...)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		date, err := time.Parse(sourceDateLayout, row[dateIdx])
		if err != nil {
			return nil, &ingest.ParseError{
				Path:   t.Path,
				Line:   t.Line(i),
				Column: t.Header[dateIdx],
				Err:    fmt.Errorf("invalid date %q, want YYYYMMDD", row[dateIdx]),
			}
		}
		records = append(records, Record{
			Date:       date,
			Line:       row[lineIdx],
			Station:    row[stationIdx],
			Boardings:  ingest.ToNonNegativeInt(row[boardIdx]),
			Alightings: ingest.ToNonNegativeInt(row[alightIdx]),
		})
	}
	return records, nil
}
