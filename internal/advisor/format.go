// Package advisor - format.go
// Compact number rendering for advisor summaries.
package advisor

import (
	"strings"

	"github.com/shopspring/decimal"
)

var siSuffixes = []string{"", "K", "M", "B", "T"}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// FormatNumber renders n with two decimals and a magnitude suffix:
// K, M, B, T, then aa, ab, ... for every further factor of 1000.
// Values below 1000 are rounded to whole units.
func FormatNumber(n float64) string {
	d := decimal.NewFromFloat(n)
	if n < 1000 {
		return d.StringFixed(0)
	}

	digits := len(d.Truncate(0).String())
	tier := (digits - 1) / 3
	scaled := d.Shift(int32(-3 * tier)).StringFixed(2)

	return scaled + suffix(tier)
}

func suffix(tier int) string {
	if tier < len(siSuffixes) {
		return siSuffixes[tier]
	}
	exp := tier - len(siSuffixes)
	first := exp / len(alphabet)
	if first >= len(alphabet) {
		return strings.Repeat(alphabet[len(alphabet)-1:], 2)
	}
	return string(alphabet[first]) + string(alphabet[exp%len(alphabet)])
}
