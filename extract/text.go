package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// cleanText NFC-normalises s, trims it and collapses runs of whitespace.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

func textOf(sel *goquery.Selection) string {
	return cleanText(sel.Text())
}

// parseCount parses an integer that may carry thousands separators.
func parseCount(s string) (int, error) {
	s = strings.ReplaceAll(cleanText(s), ",", "")
	return strconv.Atoi(s)
}

// parsePercent parses "59.7%" or "59.7" into 59.7.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(cleanText(s), "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

// parseShare parses a vote share, which must lie in [0,100].
func parseShare(s string) (float64, error) {
	f, err := parsePercent(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 100 {
		return 0, fmt.Errorf("share %v outside [0,100]", f)
	}
	return f, nil
}

// dropLastRune removes the trailing marker character some labels carry.
func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return strings.TrimSpace(s[:len(s)-size])
}

// hasSign reports whether a change string already carries its sign.
func hasSign(s string) bool {
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "−")
}

// direction is what the markup says about a change value's sign.
type direction int

const (
	dirUnknown direction = iota
	dirUp
	dirDown
)

// signedChange normalises a change value to carry an explicit sign. An
// unsigned value takes its sign from dir; with no direction it is left
// unsigned for the pipeline to reject. Zero stays unsigned.
func signedChange(s string, dir direction) string {
	s = cleanText(s)
	if s == "" || hasSign(s) {
		return s
	}
	if f, err := parsePercent(s); err == nil && f == 0 {
		return s
	}
	switch dir {
	case dirDown:
		return "-" + s
	case dirUp:
		return "+" + s
	}
	return s
}
