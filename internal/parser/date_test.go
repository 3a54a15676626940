package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	valid := map[string]string{
		"3/4/24":     "2024-03-04",
		"12/31/2023": "2023-12-31",
		"01/09/25":   "2025-01-09",
		" 2/29/24 ":  "2024-02-29",
	}
	for raw, want := range valid {
		got, ok := ParseDate(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := []string{
		"13/1/24",
		"2/30/24",
		"2/29/23",
		"0/1/24",
		"1/1",
		"2024-03-04",
		"a/b/24",
		"1/1/024",
		"1/1/2024/1",
		"",
		"123/1/24",
	}
	for _, raw := range invalid {
		_, ok := ParseDate(raw)
		assert.False(t, ok, raw)
	}
}
