package utils

import "strings"

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// chunks splits s into alternating runs of digits and non-digits
func chunks(s string) []string {
	var out []string
	start := 0
	prevDigit := false
	for i, r := range s {
		d := isDigit(r)
		if i > 0 && d != prevDigit {
			out = append(out, s[start:i])
			start = i
		}
		prevDigit = d
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isNumber(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !isDigit(r) }) < 0
}

func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// NaturalCompare orders strings so that embedded numbers compare by value,
// e.g. "img2.png" before "img10.png"
func NaturalCompare(a, b string) int {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		var c int
		if isNumber(ca[i]) && isNumber(cb[i]) {
			c = compareNumbers(ca[i], cb[i])
		} else {
			c = strings.Compare(ca[i], cb[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return strings.Compare(a, b)
}
