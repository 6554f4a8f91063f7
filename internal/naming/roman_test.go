package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoman(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"I", 1, true},
		{"ii", 2, true},
		{"III", 3, true},
		{"IV", 4, true},
		{"vi", 6, true},
		{"IX", 9, true},
		{"XIV", 14, true},
		{"MCMXCIV", 1994, true},
		{"IIII", 0, false},
		{"VV", 0, false},
		{"IL", 0, false},
		{"ABC", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRoman(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRoman(t *testing.T) {
	assert.Equal(t, "I", FormatRoman(1))
	assert.Equal(t, "IV", FormatRoman(4))
	assert.Equal(t, "XL", FormatRoman(40))
	assert.Equal(t, "MMXXVI", FormatRoman(2026))
	assert.Empty(t, FormatRoman(0))
	assert.Empty(t, FormatRoman(4000))
}

func TestFormatRoman_RoundTrip(t *testing.T) {
	for n := 1; n < 4000; n++ {
		got, ok := ParseRoman(FormatRoman(n))
		if !ok || got != n {
			t.Fatalf("ParseRoman(FormatRoman(%d)) = %d, %v", n, got, ok)
		}
	}
}
