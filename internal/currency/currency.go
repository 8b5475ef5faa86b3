package currency

import (
	"strconv"
	"strings"
)

// FormatInput renders raw keystrokes as a BRL amount. Every non-digit is
// dropped and the remaining digit string is read as whole cents, so the
// function is safe to re-apply to its own output: "1050" -> "R$ 10,50",
// "R$ 10,50" -> "R$ 10,50".
func FormatInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cents := strings.TrimLeft(digits.String(), "0")

	var intPart, fracPart string
	switch {
	case len(cents) == 0:
		intPart, fracPart = "0", "00"
	case len(cents) == 1:
		intPart, fracPart = "0", "0"+cents
	case len(cents) == 2:
		intPart, fracPart = "0", cents
	default:
		intPart, fracPart = cents[:len(cents)-2], cents[len(cents)-2:]
	}

	return "R$ " + groupThousands(intPart) + "," + fracPart
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Parse turns a formatted BRL string back into a float. Everything except
// digits and the comma is stripped, the first comma becomes the decimal
// point. Malformed input degrades to 0 rather than erroring.
func Parse(formatted string) float64 {
	var kept strings.Builder
	for _, r := range formatted {
		if (r >= '0' && r <= '9') || r == ',' {
			kept.WriteRune(r)
		}
	}

	s := strings.Replace(kept.String(), ",", ".", 1)

	// longest numeric prefix, so trailing garbage like a second comma
	// does not zero out an otherwise readable amount
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}
