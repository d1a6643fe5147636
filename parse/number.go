// Package parse normalizes the text the DSE publishes into typed values:
// locale-formatted numbers, signed change cells, long-form dates, and
// renamed ticker symbols.
package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Number parses a thousands-separated numeric cell ("1,234.50" -> 1234.50).
// Empty or unparseable input yields 0, never an error and never NaN, since
// a blank cell means "not reported" on the source table.
func Number(s string) float64 {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var signedDecimalRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// SignedChange extracts the signed magnitude from a change cell. The source
// mixes directional glyphs with the number ("▼ -2.48"), and the numeric
// value is reliably the trailing token, so the last decimal match wins.
// Returns 0 when no decimal token is present.
func SignedChange(s string) float64 {
	matches := signedDecimalRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
	if err != nil {
		return 0
	}
	return v
}
