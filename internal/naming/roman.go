package naming

import "strings"

var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ParseRoman parses a roman numeral, case-insensitively. Only canonical
// spellings are accepted: "IIII" and "VV" are rejected.
func ParseRoman(s string) (int, bool) {
	upper := strings.ToUpper(s)
	if upper == "" {
		return 0, false
	}

	total := 0
	for i := 0; i < len(upper); i++ {
		v, ok := romanValues[upper[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(upper) && romanValues[upper[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}

	if total <= 0 || total >= 4000 || FormatRoman(total) != upper {
		return 0, false
	}
	return total, true
}

// FormatRoman renders n (1..3999) as an upper-case roman numeral.
// It returns an empty string for values outside that range.
func FormatRoman(n int) string {
	if n <= 0 || n >= 4000 {
		return ""
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
