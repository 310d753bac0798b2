package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ppiankov/sharechart/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E"))
)

// Terminal draws horizontal bars scaled to the top share, one line per rank
type Terminal struct {
	MaxBarWidth int // cells used by the longest bar
	MaxLabel    int // label column width in cells; longer labels are truncated
}

// NewTerminal returns a terminal renderer with default widths
func NewTerminal() *Terminal {
	return &Terminal{MaxBarWidth: 40, MaxLabel: 24}
}

// FitWidth sizes the bars so a line fits in cols terminal columns
func (t *Terminal) FitWidth(cols int) {
	if cols <= 0 {
		return
	}
	// label, two spaces and the annotation
	bar := cols - t.MaxLabel - 10
	t.MaxBarWidth = min(max(bar, 10), 60)
}

// Render writes the chart and the detail table of report to w
func (t *Terminal) Render(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(report.Title))
	b.WriteString("\n")
	if !report.HasData() {
		b.WriteString(warnStyle.Render("Total is 0: nothing to show."))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "%s %s\n\n", mutedStyle.Render("Total:"), FormatCount(report.Total))

	labelWidth := t.labelWidth(report)
	top := report.Chart[0].Percentage
	for _, bar := range report.Chart {
		cells := 0
		if top > 0 {
			cells = int(bar.Percentage / top * float64(t.MaxBarWidth))
		}
		if cells == 0 && bar.Count > 0 {
			cells = 1
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color.Hex))
		fmt.Fprintf(&b, "%s %s %s\n",
			t.fit(bar.Label, labelWidth),
			style.Render(strings.Repeat("█", cells))+strings.Repeat(" ", t.MaxBarWidth-cells),
			bar.Annotation,
		)
	}

	b.WriteString("\n")
	b.WriteString(t.table(report, labelWidth))

	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Terminal) table(report *model.Report, labelWidth int) string {
	var b strings.Builder

	countHeading := report.CountHeading
	countWidth := max(runewidth.StringWidth(countHeading), 10)
	header := fmt.Sprintf("%s  %s  %s",
		t.fit(report.CategoryHeading, labelWidth),
		runewidth.FillLeft(countHeading, countWidth),
		runewidth.FillLeft("%", 8),
	)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	for _, row := range report.Table {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			t.fit(row.Label, labelWidth),
			runewidth.FillLeft(FormatCount(row.Count), countWidth),
			runewidth.FillLeft(row.Share, 8),
		)
	}
	return b.String()
}

func (t *Terminal) labelWidth(report *model.Report) int {
	w := runewidth.StringWidth(report.CategoryHeading)
	for _, bar := range report.Chart {
		w = max(w, runewidth.StringWidth(bar.Label))
	}
	if t.MaxLabel > 0 {
		w = min(w, t.MaxLabel)
	}
	return w
}

// fit pads or truncates s to exactly width cells, counting wide runes as two
func (t *Terminal) fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// FormatCount prints 12345 as "12,345"
func FormatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return s
	}
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}
