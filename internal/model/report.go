package model

import "time"

// Report is a rendered-ready share breakdown for one page
type Report struct {
	Page        string    `json:"page"`         // Page name (e.g., "height")
	Title       string    `json:"title"`        // Chart and document title
	Source      string    `json:"source"`       // CSV path the data came from
	GeneratedAt time.Time `json:"generated_at"` // When the report was built

	CategoryHeading string `json:"category_heading"` // Table header for the label column
	CountHeading    string `json:"count_heading"`    // Table header for the count column

	Total int  `json:"total"` // Grand total of all counts
	Empty bool `json:"empty"` // True when total is 0; nothing to render

	Chart []ChartBar   `json:"chart"` // All rows, zero-count included, in rank order
	Table []TableRow   `json:"table"` // Rows with count > 0, in rank order
	YMax  float64      `json:"y_max"` // Upper bound of the percentage axis
	Theme ChartPalette `json:"palette"`

	Transit *TransitDetail `json:"transit,omitempty"` // Only set for the transit page
}

// ChartBar is one bar of the ranked chart
type ChartBar struct {
	Rank       int             `json:"rank"`
	Label      string          `json:"label"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
	Annotation string          `json:"annotation"` // One-decimal percentage text
	Color      ColorAssignment `json:"color"`
}

// TableRow is one row of the detail table
type TableRow struct {
	RankedEntry
	Share string `json:"share"` // Two-decimal percentage text
}

// ChartPalette names the coloring scheme used for the chart
type ChartPalette string

const (
	PaletteGradient ChartPalette = "gradient" // Highlight + single-hue lightness ramp
	PaletteFade     ChartPalette = "fade"     // Highlight + yellow fade (transit)
)

// TransitDetail carries the selection and per-station breakdown of the transit page
type TransitDetail struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Line     string       `json:"line"`
	Month    string       `json:"month,omitempty"` // YYYY-MM filter applied before selection
	Dates    []string     `json:"dates"`           // Selectable dates
	Lines    []string     `json:"lines"`           // Selectable lines
	Stations []StationRow `json:"stations"`
}

// StationRow is the ridership of one station on the selected date and line
type StationRow struct {
	Station    string `json:"station"`
	Boardings  int    `json:"boardings"`
	Alightings int    `json:"alightings"`
	Total      int    `json:"total"`
}

// HasData reports whether the report has anything to draw
func (r *Report) HasData() bool {
	return r != nil && !r.Empty && len(r.Chart) > 0
}
