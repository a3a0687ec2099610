package pipeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseSignedPercent parses a signed percentage-point change such as
// "+2.3%" or "-1.1%". A leading U+2212 minus sign counts as negative.
// An unsigned value is accepted only when it is exactly zero.
func ParseSignedPercent(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	body := strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if body == "" {
		return 0, fmt.Errorf("empty change value %q", s)
	}

	sign := 0.0
	switch {
	case strings.HasPrefix(body, "+"):
		sign, body = 1, body[1:]
	case strings.HasPrefix(body, "-"):
		sign, body = -1, body[1:]
	case strings.HasPrefix(body, "−"):
		sign, body = -1, body[len("−"):]
	}

	body = strings.TrimSpace(body)
	if !decimalPattern.MatchString(body) {
		return 0, fmt.Errorf("change value %q is not a signed decimal", s)
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, fmt.Errorf("change value %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("change value %q is not finite", s)
	}
	if f == 0 {
		return 0, nil
	}
	if sign == 0 {
		return 0, fmt.Errorf("change value %q has no leading sign", s)
	}
	return sign * f, nil
}
