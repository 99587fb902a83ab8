package movie

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ratingPattern = regexp.MustCompile(`^\d(\.\d)?$|^10(\.0)?$`)
	maxRating     = decimal.NewFromInt(10)
)

// ParseRating converts the wire representation ("7", "8.5", "10.0") into
// the stored numeric value.
func ParseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !ratingPattern.MatchString(raw) {
		return 0, ErrInvalidRating
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidRating
	}
	if d.IsNegative() || d.GreaterThan(maxRating) {
		return 0, ErrInvalidRating
	}
	return d.Round(1).InexactFloat64(), nil
}

// FormatRating renders r with exactly one decimal place.
func FormatRating(r float64) string {
	return decimal.NewFromFloat(r).StringFixed(1)
}

// ValidRating reports whether r lies in [0, 10] with at most one decimal.
func ValidRating(r float64) bool {
	d := decimal.NewFromFloat(r)
	if d.IsNegative() || d.GreaterThan(maxRating) {
		return false
	}
	return d.Equal(d.Round(1))
}
