package exporter

import "strconv"

// DateLayout is the date format of every exported file
const DateLayout = "2006-01-02"

// FormatFloat renders a float with the shortest representation that parses back exactly
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatInt formats an integer value for CSV output
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// ParseNumber reports whether a cell holds a number, and its value
func ParseNumber(cell string) (float64, bool) {
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
