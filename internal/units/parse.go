// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numberPattern is an unsigned number: digits with an optional decimal
// point and an optional exponent.
const numberPattern = `(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`

// numberRe is the whole grammar for a single signed number.
var numberRe = regexp.MustCompile(`^[+-]?` + numberPattern + `$`)

// parseNumeric parses a single number, a range "12-14", or a sequence
// "(12,14)" and returns the arithmetic mean of every number found.
func parseNumeric(tok string) (float64, error) {
	s := strings.TrimSpace(tok)
	if len(s) >= 2 && strings.ContainsRune("([", rune(s[0])) && strings.ContainsRune(")]", rune(s[len(s)-1])) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}

	var nums []float64
	for _, part := range strings.Split(s, ",") {
		vals, err := parseRange(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		nums = append(nums, vals...)
	}

	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums)), nil
}

// parseRange splits "lo-hi" on the first dash that follows a digit or a
// decimal point. A leading sign and exponent signs are not separators.
func parseRange(s string) ([]float64, error) {
	if s == "" {
		return nil, fmt.Errorf("empty number")
	}

	var prev rune
	for i, r := range s {
		if i > 0 && (r == '-' || r == '–') && (unicode.IsDigit(prev) || prev == '.') {
			lo, err := parseSingle(s[:i])
			if err != nil {
				return nil, err
			}
			hi, err := parseSingle(s[i+len(string(r)):])
			if err != nil {
				return nil, err
			}
			return []float64{lo, hi}, nil
		}
		prev = r
	}

	v, err := parseSingle(s)
	if err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

func parseSingle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !numberRe.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// keepNumeric drops every rune that cannot take part in a number or range.
// An exponent marker survives when it sits between a digit and an
// optionally signed digit.
func keepNumeric(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		switch {
		case unicode.IsDigit(r) || strings.ContainsRune(".,+-–", r):
			b.WriteRune(r)
		case (r == 'e' || r == 'E') && exponentAt(rs, i):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func exponentAt(rs []rune, i int) bool {
	if i == 0 || !unicode.IsDigit(rs[i-1]) {
		return false
	}
	j := i + 1
	if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
		j++
	}
	return j < len(rs) && unicode.IsDigit(rs[j])
}

// Canonical normalizes a unit token: digits and underscores are dropped,
// the rest is lower-cased and "k" becomes "kelvin". The second result is
// false for numeric noise such as "150" or "12-14" and when nothing usable
// remains. Canonical is idempotent.
func Canonical(unit string) (string, bool) {
	u := strings.TrimSpace(unit)
	if u == "" {
		return "", false
	}
	if _, err := parseNumeric(u); err == nil {
		return "", false
	}

	u = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '_' {
			return -1
		}
		return r
	}, u)
	if u == "" {
		return "", false
	}

	u = strings.ToLower(u)
	if u == "k" {
		return "kelvin", true
	}
	return u, true
}

var keyReplacer = strings.NewReplacer(
	"/", "_per_",
	"°", "deg",
	"²", "2",
	"³", "3",
	"⋅", "_",
	"·", "_",
	"⁻¹", "",
	" ", "_",
)

// keySuffix maps a canonical unit onto [a-z0-9_] for use in field names.
func keySuffix(unit string) string {
	s := keyReplacer.Replace(unit)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
