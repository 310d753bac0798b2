package share

import "github.com/ppiankov/sharechart/internal/model"

// Breakdown is the chart tier and the table tier of one computation
type Breakdown struct {
	Total int
	Chart []model.ChartBar
	Table []model.TableRow
	YMax  float64
}

// Empty reports whether there is nothing to render
func (b Breakdown) Empty() bool {
	return b.Total == 0
}

// Build runs both tiers over counts and colors the chart with palette.
// headroom scales the top share into the y-axis maximum (1.15 leaves room for
// annotations above the tallest bar).
func Build(counts []model.CategoryCount, palette Palette, headroom float64) Breakdown {
	rows, total := ChartRows(counts)
	if total == 0 {
		return Breakdown{Chart: []model.ChartBar{}, Table: []model.TableRow{}}
	}

	colors := palette.Assign(len(rows))
	chart := make([]model.ChartBar, len(rows))
	top := 0.0
	for i, r := range rows {
		chart[i] = model.ChartBar{
			Rank:       i,
			Label:      r.Label,
			Count:      r.Count,
			Percentage: r.Percentage,
			Annotation: ChartLabel(r.Percentage),
			Color:      colors[i],
		}
		if r.Percentage > top {
			top = r.Percentage
		}
	}

	entries, _ := Compute(counts)
	table := make([]model.TableRow, len(entries))
	for i, e := range entries {
		table[i] = model.TableRow{RankedEntry: e, Share: TableLabel(e.Percentage)}
	}

	if headroom <= 0 {
		headroom = 1
	}

	return Breakdown{
		Total: total,
		Chart: chart,
		Table: table,
		YMax:  top * headroom,
	}
}
