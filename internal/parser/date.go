package parser

import (
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

// ParseDate converts a M/D/YY or M/D/YYYY cell into YYYY-MM-DD. Two digit
// years are read as 20YY. The second return value is false when the cell is
// not a valid calendar date.
func ParseDate(raw string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return "", false
	}

	month, day, year := parts[0], parts[1], parts[2]
	if !isDigits(month, 1, 2) || !isDigits(day, 1, 2) {
		return "", false
	}

	switch len(year) {
	case 2:
		year = "20" + year
	case 4:
	default:
		return "", false
	}
	if !isDigits(year, 4, 4) {
		return "", false
	}

	iso := year + "-" + padTwo(month) + "-" + padTwo(day)
	if _, err := time.Parse(isoDateLayout, iso); err != nil {
		return "", false
	}
	return iso, true
}

func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
