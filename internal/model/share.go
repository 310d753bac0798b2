package model

// CategoryCount is one input row: a category label and its observation count.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RankedEntry is a category with its share of the grand total.
type RankedEntry struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // 0-100
}

// ColorAssignment is the bar color for one rank position.
type ColorAssignment struct {
	Rank      int     `json:"rank"`
	CSS       string  `json:"css"`                 // e.g. "red", "hsl(240, 70%, 60.0%)"
	Hex       string  `json:"hex"`                 // sRGB, "#rrggbb"
	Lightness float64 `json:"lightness,omitempty"` // HSL lightness in percent, gradient ranks only
}
