// Package share computes ranked percentage-share breakdowns of category counts
// and the bar colors that go with each rank.
package share

import (
	"math"
	"sort"

	"github.com/ppiankov/sharechart/internal/model"
)

// Compute returns the detail-table tier of a breakdown: categories with a
// positive count, sorted by count descending, each with its share of the total.
// Equal counts keep their input order. When the total is zero the result is
// empty and no division happens.
func Compute(counts []model.CategoryCount) ([]model.RankedEntry, int) {
	total := Total(counts)
	if total == 0 {
		return []model.RankedEntry{}, 0
	}

	entries := make([]model.RankedEntry, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		entries = append(entries, model.RankedEntry{
			Label:      c.Label,
			Count:      c.Count,
			Percentage: ratio(c.Count, total),
		})
	}

	sortEntries(entries)
	return entries, total
}

// ChartRows returns the chart tier of a breakdown. Unlike Compute it keeps
// zero-count categories (at 0%), so colors are ranked over every row.
func ChartRows(counts []model.CategoryCount) ([]model.RankedEntry, int) {
	total := Total(counts)
	if total == 0 {
		return []model.RankedEntry{}, 0
	}

	rows := make([]model.RankedEntry, 0, len(counts))
	for _, c := range counts {
		n := c.Count
		if n < 0 {
			n = 0
		}
		rows = append(rows, model.RankedEntry{
			Label:      c.Label,
			Count:      n,
			Percentage: ratio(n, total),
		})
	}

	sortEntries(rows)
	return rows, total
}

// Total sums all non-negative counts
func Total(counts []model.CategoryCount) int {
	total := 0
	for _, c := range counts {
		if c.Count > 0 {
			total = AddCount(total, c.Count)
		}
	}
	return total
}

// AddCount adds two non-negative counts, saturating at math.MaxInt
func AddCount(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func ratio(count, total int) float64 {
	return 100 * float64(count) / float64(total)
}

func sortEntries(entries []model.RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}

// Tally accumulates counts per label, keeping first-seen label order.
// Adding a label twice sums the counts.
type Tally struct {
	index  map[string]int
	counts []model.CategoryCount
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// Add adds n to label. Negative values count as zero.
func (t *Tally) Add(label string, n int) {
	if n < 0 {
		n = 0
	}
	if i, ok := t.index[label]; ok {
		t.counts[i].Count = AddCount(t.counts[i].Count, n)
		return
	}
	t.index[label] = len(t.counts)
	t.counts = append(t.counts, model.CategoryCount{Label: label, Count: n})
}

// Len returns the number of distinct labels
func (t *Tally) Len() int {
	return len(t.counts)
}

// Counts returns a copy of the accumulated counts in first-seen order
func (t *Tally) Counts() []model.CategoryCount {
	out := make([]model.CategoryCount, len(t.counts))
	copy(out, t.counts)
	return out
}

// FromMap converts a map to counts. Map order is random, so labels are
// sorted to keep tie-breaking deterministic.
func FromMap(m map[string]int) []model.CategoryCount {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	t := NewTally()
	for _, label := range labels {
		t.Add(label, m[label])
	}
	return t.Counts()
}
