package ingest

import (
	"math"
	"strconv"
	"strings"
)

// maxExactFloat is the largest integer a float64 holds without rounding.
// Counts above it are treated as out of range.
const maxExactFloat = 1 << 53

// ToNonNegativeInt coerces a raw count field. Thousands separators are
// ignored and fractions truncate toward zero. Empty, unparsable, NaN,
// infinite, negative and out-of-range values all become 0.
func ToNonNegativeInt(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 || n >= maxExactFloat {
			return 0
		}
		return int(n)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= maxExactFloat {
		return 0
	}
	return int(f)
}
