package transit

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/share"
)

// ErrUnknownSelection is returned when a requested date or line has no rows
var ErrUnknownSelection = errors.New("selection not in data")

// Dataset is an immutable set of ridership records
type Dataset struct {
	records []Record
}

// NewDataset wraps records. The slice is not copied and must not be modified.
func NewDataset(records []Record) *Dataset {
	return &Dataset{records: records}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// InMonth keeps only records from month (YYYY-MM). An empty month keeps all.
func (d *Dataset) InMonth(month string) (*Dataset, error) {
	if month == "" {
		return d, nil
	}
	m, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q, want YYYY-MM: %w", month, err)
	}

	var kept []Record
	for _, r := range d.records {
		if r.Date.Year() == m.Year() && r.Date.Month() == m.Month() {
			kept = append(kept, r)
		}
	}
	return NewDataset(kept), nil
}

// Dates returns the distinct days in ascending order
func (d *Dataset) Dates() []string {
	return d.distinct(Record.Day)
}

// Lines returns the distinct line names in ascending order
func (d *Dataset) Lines() []string {
	return d.distinct(func(r Record) string { return r.Line })
}

func (d *Dataset) distinct(key func(Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Selection is the slice of records for one date and line
type Selection struct {
	Date    string
	Line    string
	Records []Record
}

// Select filters to one date (YYYY-MM-DD) and line. An empty date or line
// falls back to the first available value. Asking for a value the dataset
// does not contain returns ErrUnknownSelection.
func (d *Dataset) Select(date, line string) (Selection, error) {
	dates, lines := d.Dates(), d.Lines()
	if len(dates) == 0 {
		return Selection{Date: date, Line: line}, nil
	}

	if date == "" {
		date = dates[0]
	} else if !slices.Contains(dates, date) {
		return Selection{}, fmt.Errorf("date %s: %w", date, ErrUnknownSelection)
	}
	if line == "" {
		line = lines[0]
	} else if !slices.Contains(lines, line) {
		return Selection{}, fmt.Errorf("line %s: %w", line, ErrUnknownSelection)
	}

	sel := Selection{Date: date, Line: line}
	for _, r := range d.records {
		if r.Day() == date && r.Line == line {
			sel.Records = append(sel.Records, r)
		}
	}
	return sel, nil
}

// Rank groups records by station and orders stations by total ridership,
// descending; stations with equal totals keep their first-seen order. It
// also returns the station totals as counts for the share computation.
func Rank(records []Record) ([]model.StationRow, []model.CategoryCount) {
	index := make(map[string]int)
	var rows []model.StationRow
	tally := share.NewTally()

	for _, r := range records {
		i, ok := index[r.Station]
		if !ok {
			i = len(rows)
			index[r.Station] = i
			rows = append(rows, model.StationRow{Station: r.Station})
		}
		rows[i].Boardings = share.AddCount(rows[i].Boardings, r.Boardings)
		rows[i].Alightings = share.AddCount(rows[i].Alightings, r.Alightings)
		rows[i].Total = share.AddCount(rows[i].Total, r.Total())
		tally.Add(r.Station, r.Total())
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	if rows == nil {
		rows = []model.StationRow{}
	}
	return rows, tally.Counts()
}
