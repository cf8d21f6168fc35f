// Package normalize canonicalizes literal values so cosmetically
// different but semantically equal values compare equal during diffing.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	shortHexRe = regexp.MustCompile(`^#([0-9a-fA-F]{3})$`)
	longHexRe  = regexp.MustCompile(`^#[0-9a-fA-F]{6}([0-9a-fA-F]{2})?$`)
	zeroUnitRe = regexp.MustCompile(`^0+(?:\.0+)?(px|em|rem|ex|ch|vw|vh|vmin|vmax|cm|mm|in|pt|pc|q|%)$`)
	decimalRe  = regexp.MustCompile(`^-?\d*\.?\d+$`)
	rgbFuncRe  = regexp.MustCompile(`^(rgba?|hsla?)\s*\(`)
	wsRe       = regexp.MustCompile(`\s+`)
)

// Value maps a raw literal token to its canonical comparable form.
// Idempotent: Value(Value(v)) == Value(v).
func Value(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return v
	}

	lower := strings.ToLower(v)

	// 3-digit hex colors expand to 6-digit; hex colors lowercase.
	if m := shortHexRe.FindStringSubmatch(lower); m != nil {
		d := m[1]
		return "#" + strings.Repeat(string(d[0]), 2) + strings.Repeat(string(d[1]), 2)
	}
	if longHexRe.MatchString(lower) {
		return lower
	}

	// Zero with any length unit or percent collapses to unit-less 0.
	if zeroUnitRe.MatchString(lower) {
		return "0"
	}

	// Bare decimals format to two fraction digits.
	if decimalRe.MatchString(v) && strings.Contains(v, ".") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 2, 64)
		}
	}

	// Color function calls lose internal whitespace.
	if rgbFuncRe.MatchString(lower) {
		return wsRe.ReplaceAllString(lower, "")
	}

	return v
}

// Values normalizes every element of a slice, preserving order and
// multiplicity.
func Values(raw []string) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = Value(v)
	}
	return out
}
