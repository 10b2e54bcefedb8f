package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// leadingIntOr reads the whole number at the start of raw, ignoring anything
// after it ("2.5" is 2, "3abc" is 3). def is returned when raw does not start
// with digits or the number overflows int.
func leadingIntOr(raw string, def int) int {
	m := leadingInt.FindString(strings.TrimSpace(raw))
	if m == "" {
		return def
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return def
	}
	return v
}

// leadingFloatOf reads the decimal number at the start of raw ("5abc" is 5,
// "1e2x" is 100). Unlike ParseNumber, trailing text is ignored.
func leadingFloatOf(raw string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
