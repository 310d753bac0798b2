package share

import "fmt"

// PercentageLabel formats a percentage with a fixed number of decimals
func PercentageLabel(p float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, p)
}

// ChartLabel is the bar annotation form (one decimal)
func ChartLabel(p float64) string {
	return PercentageLabel(p, 1)
}

// TableLabel is the detail table form (two decimals)
func TableLabel(p float64) string {
	return PercentageLabel(p, 2)
}
