// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units turns scraped chemistry text such as "1234 K (961 °C)" into
// a numeric value and a canonical unit name.
//
// Extraction never fails loudly: a fragment that cannot be understood yields
// an empty Parsed and one diagnostic line on the extractor's sink, so callers
// can drop the field and move on.
package units

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
)

// celsiusOffset converts degrees Celsius to kelvin in the no-space fallback
// ("25°C"). The scraped corpus was built with this value rather than 273.15.
const celsiusOffset = 272.16

var (
	// annotationRe matches footnotes and qualifiers such as "(covalent)",
	// "[2]" or "(961 °C)".
	annotationRe = regexp.MustCompile(`\s*[\(\[][\p{L}\p{N} .°]+[\)\]]`)

	// labelRe matches a leading "Label:" phrase.
	labelRe = regexp.MustCompile(`^\s*\p{L}[\p{L} ]*:\s*`)

	// rangeSpaceRe joins "12 - 14" into "12-14" so ranges stay one token.
	rangeSpaceRe = regexp.MustCompile(`(\d)\s*([-–])\s*(\d)`)

	// commaSpaceRe joins "(12, 14)" into "(12,14)".
	commaSpaceRe = regexp.MustCompile(`,\s+`)

	// numericPrefixRe splits "12-14nm" into a number or range and the rest.
	numericPrefixRe = regexp.MustCompile(`^([+-]?` + numberPattern + `(?:[-–]` + numberPattern + `)?)\s*(.*)$`)
)

// artifactReplacer removes encoding debris left by the upstream sources.
var artifactReplacer = strings.NewReplacer(
	"Ã\u0097", "×",
	"Â", "",
	"\u00a0", " ",
	`\n`, " ",
	`\t`, " ",
	`\r`, " ",
	"~", "",
	"≈", "",
)

var (
	errNoNumericPrefix = errors.New("no numeric prefix")
	errDanglingRange   = errors.New("range separator without upper bound")
)

// Parsed is the result of an extraction. A nil Value means no number could
// be recovered; an empty Unit means no usable unit was present.
type Parsed struct {
	Value *float64
	Unit  string
}

// OK reports whether both a value and a unit were recovered.
func (p Parsed) OK() bool {
	return p.Value != nil && p.Unit != ""
}

// Key returns field suffixed with the canonical unit, e.g.
// "melting_point_kelvin". When the unit is unusable the bare field is
// returned.
func (p Parsed) Key(field string) string {
	unit, ok := Canonical(p.Unit)
	if !ok {
		return field
	}
	suffix := keySuffix(unit)
	if suffix == "" {
		return field
	}
	return field + "_" + suffix
}

// Extractor parses raw fragments and writes one line per failure to its
// diagnostic sink. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	mu   sync.Mutex
	diag io.Writer
}

// New returns an Extractor reporting to diag. A nil diag discards
// diagnostics.
func New(diag io.Writer) *Extractor {
	if diag == nil {
		diag = io.Discard
	}
	return &Extractor{diag: diag}
}

var std = New(os.Stderr)

// Extract parses raw with diagnostics written to standard error.
func Extract(raw string) Parsed {
	return std.Extract(raw)
}

// Extract isolates the value and unit tokens in raw, coerces the value
// (averaging ranges) and canonicalizes the unit. Fragments without a space
// between number and unit go through the Celsius fallback, which reports
// kelvin as "K".
func (e *Extractor) Extract(raw string) (p Parsed) {
	defer func() {
		if r := recover(); r != nil {
			e.report("extract value from", raw, fmt.Errorf("%v", r))
			p = Parsed{}
		}
	}()

	text := clean(raw)
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return e.partition(raw, text)
	}

	value, ok := e.coerce(fields[0])
	if !ok {
		return Parsed{}
	}
	unit, ok := Canonical(fields[1])
	if !ok {
		return Parsed{}
	}
	return Parsed{Value: &value, Unit: unit}
}

// partition handles fragments that do not split into "value unit".
func (e *Extractor) partition(raw, text string) Parsed {
	m := numericPrefixRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		e.report("split value and unit from", raw, errNoNumericPrefix)
		return Parsed{}
	}

	unit := strings.TrimSpace(m[2])
	if strings.HasPrefix(unit, "-") || strings.HasPrefix(unit, "–") || strings.HasPrefix(unit, "+") {
		e.report("split value and unit from", raw, errDanglingRange)
		return Parsed{}
	}

	value, err := parseNumeric(m[1])
	if err != nil {
		e.report("convert number from", m[1], err)
		return Parsed{}
	}

	if unit == "°C" || unit == "℃" {
		k := value - celsiusOffset
		return Parsed{Value: &k, Unit: "K"}
	}

	canonical, ok := Canonical(unit)
	if !ok {
		return Parsed{}
	}
	return Parsed{Value: &value, Unit: canonical}
}

// coerce parses a value token, retrying once with only numeric characters.
func (e *Extractor) coerce(tok string) (float64, bool) {
	v, err := parseNumeric(tok)
	if err == nil {
		return v, true
	}
	if v, retryErr := parseNumeric(keepNumeric(tok)); retryErr == nil {
		return v, true
	}
	e.report("convert number from", tok, err)
	return 0, false
}

func (e *Extractor) report(action, input string, cause error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.diag, "Cannot %s %q due to %v\n", action, input, cause)
}

// clean applies the annotation, label and artifact passes.
func clean(raw string) string {
	s := annotationRe.ReplaceAllString(raw, "")
	s = labelRe.ReplaceAllString(s, "")
	s = artifactReplacer.Replace(s)
	s = rangeSpaceRe.ReplaceAllString(s, "$1$2$3")
	s = commaSpaceRe.ReplaceAllString(s, ",")
	return strings.TrimSpace(s)
}

// Number coerces a unitless fragment such as "1.008", "[1.00784, 1.00811]"
// or "3.524(2)". Annotations and whitespace are removed first; ranges and
// sequences are averaged.
func Number(raw string) (float64, error) {
	s := annotationRe.ReplaceAllString(raw, "")
	s = artifactReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), "")
	return parseNumeric(s)
}
