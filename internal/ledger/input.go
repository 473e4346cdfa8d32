package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/centromex/donorlog/internal/models"
)

var titleCaser = cases.Title(language.Und)

// NormalizeName trims the name, collapses inner whitespace and title-cases it.
// "  aLICE   smith " becomes "Alice Smith".
func NormalizeName(name string) string {
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// SameDonor compares two names under the ledger's identity rule.
func SameDonor(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}

// ParseBloodGroup upper-cases the input and checks it against the standard groups.
func ParseBloodGroup(s string) (string, error) {
	g := strings.ToUpper(strings.TrimSpace(s))
	if !models.IsBloodGroup(g) {
		return "", fmt.Errorf("%w %q (expected one of %s)", models.ErrInvalidBloodGroup, s, strings.Join(models.BloodGroups, ", "))
	}
	return g, nil
}

// ParseDate parses a YYYY-MM-DD date. A blank string means today.
func ParseDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DateOf(today), nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", models.ErrParse, s)
	}
	return d, nil
}

// ParseVolume parses a donation volume in millilitres.
func ParseVolume(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: volume %q is not a number", models.ErrParse, s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: volume %q must be a non-negative number", models.ErrParse, s)
	}
	return v, nil
}

// FormatVolume renders v with the shortest representation that parses back to v.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
