package exporter

import (
	"strconv"
)

// formatFloat renders a float64 for CSV output using the shortest
// representation that parses back to the same value. Stable formatting is
// what makes repeated runs over the same input byte-identical; NaN renders
// as the literal "NaN".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt renders an int for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
