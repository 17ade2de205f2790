package division

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads a number the lenient way form inputs always have: the
// longest numeric prefix counts ("12abc" is 12), and anything without one
// (empty, "abc", "-") is 0. It never fails, so a typo silently becomes 0.
// Values are read as float64 first, so anything that overflows it
// ("1e10000000") is 0 as well.
func ParseNumber(s string) decimal.Decimal {
	m := numberPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// float64 reaches about 1e308 and denormals stop near 1e-324.
const (
	maxExponent = 400
	maxCoefBits = 1100
)

// boundNumber zeroes a decimal that did not come through ParseNumber (JSON,
// imports) when it is far outside what a form field can hold.
func boundNumber(d decimal.Decimal) decimal.Decimal {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent || d.Coefficient().BitLen() > maxCoefBits {
		return decimal.Zero
	}
	return d
}
