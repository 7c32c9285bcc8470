// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crystals

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/periodic-table/internal/units"
)

// ErrMissing is returned for absent tags and the CIF placeholders "?" and ".".
var ErrMissing = errors.New("missing value")

// CIF is the first data block of a Crystallographic Information File.
// Tags are stored lower-cased.
type CIF struct {
	Name  string
	Items map[string]string
	Loops []Loop
}

// Loop is a loop_ table.
type Loop struct {
	Tags []string
	Rows [][]string
}

// Column returns the index of tag in the loop, or -1.
func (l *Loop) Column(tag string) int {
	tag = strings.ToLower(tag)
	for i, t := range l.Tags {
		if t == tag {
			return i
		}
	}
	return -1
}

// Value returns the value of the first of tags that is present.
func (c *CIF) Value(tags ...string) (string, bool) {
	for _, tag := range tags {
		if v, ok := c.Items[strings.ToLower(tag)]; ok && v != "?" && v != "." {
			return v, true
		}
	}
	return "", false
}

// Float returns the first present tag as a number with any standard
// uncertainty, e.g. the "(2)" in "3.524(2)", removed.
func (c *CIF) Float(tags ...string) (float64, error) {
	v, ok := c.Value(tags...)
	if !ok {
		return 0, fmt.Errorf("%s: %w", tags[0], ErrMissing)
	}
	f, err := units.Number(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tags[0], err)
	}
	return f, nil
}

// Loop returns the loop that contains tag.
func (c *CIF) Loop(tag string) (*Loop, bool) {
	for i := range c.Loops {
		if c.Loops[i].Column(tag) >= 0 {
			return &c.Loops[i], true
		}
	}
	return nil, false
}

type token struct {
	text   string
	quoted bool
}

func (t token) isTag() bool {
	return !t.quoted && strings.HasPrefix(t.text, "_")
}

func (t token) isKeyword() bool {
	l := strings.ToLower(t.text)
	return !t.quoted && (l == "loop_" || strings.HasPrefix(l, "data_"))
}

// ReadCIF parses tag/value pairs and loop_ blocks of the first data block.
// Quoted values and semicolon text fields are supported; save frames and
// global blocks are not.
func ReadCIF(r io.Reader) (*CIF, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}

	c := &CIF{Items: make(map[string]string)}
	inBlock := false
	for i := 0; i < len(toks); {
		t := toks[i]
		lower := strings.ToLower(t.text)
		switch {
		case !t.quoted && strings.HasPrefix(lower, "data_"):
			if inBlock {
				return c, nil
			}
			inBlock = true
			c.Name = t.text[len("data_"):]
			i++

		case !t.quoted && lower == "loop_":
			i++
			var loop Loop
			for i < len(toks) && toks[i].isTag() {
				loop.Tags = append(loop.Tags, strings.ToLower(toks[i].text))
				i++
			}
			var values []string
			for i < len(toks) && !toks[i].isTag() && !toks[i].isKeyword() {
				values = append(values, toks[i].text)
				i++
			}
			if len(loop.Tags) == 0 {
				return nil, errors.New("loop_ without tags")
			}
			if len(values)%len(loop.Tags) != 0 {
				return nil, fmt.Errorf("loop with %d tags has %d values", len(loop.Tags), len(values))
			}
			for j := 0; j < len(values); j += len(loop.Tags) {
				loop.Rows = append(loop.Rows, values[j:j+len(loop.Tags)])
			}
			c.Loops = append(c.Loops, loop)

		case t.isTag():
			if i+1 >= len(toks) || toks[i+1].isTag() || toks[i+1].isKeyword() {
				return nil, fmt.Errorf("tag %s has no value", t.text)
			}
			c.Items[lower] = toks[i+1].text
			i += 2

		default:
			return nil, fmt.Errorf("unexpected token %q", t.text)
		}
	}

	if !inBlock {
		return nil, errors.New("no data block")
	}
	return c, nil
}

func tokenize(r io.Reader) ([]token, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		toks   []token
		text   strings.Builder
		inText bool
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.HasPrefix(line, ";") {
			if inText {
				toks = append(toks, token{text: strings.TrimSpace(text.String()), quoted: true})
				text.Reset()
				inText = false
			} else {
				inText = true
				text.WriteString(line[1:])
			}
			continue
		}
		if inText {
			text.WriteString("\n")
			text.WriteString(line)
			continue
		}
		toks = append(toks, splitLine(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading CIF: %w", err)
	}
	if inText {
		return nil, fmt.Errorf("unterminated text field at line %d", lineNo)
	}
	return toks, nil
}

// splitLine tokenizes one line. A quote closes only when followed by
// whitespace or the end of the line, so "O'Brien" stays one token.
func splitLine(line string) []token {
	var toks []token
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			return toks
		case c == '\'' || c == '"':
			j := i + 1
			for j < len(line) && !(line[j] == c && (j+1 == len(line) || line[j+1] == ' ' || line[j+1] == '\t')) {
				j++
			}
			toks = append(toks, token{text: line[i+1 : j], quoted: true})
			i = j + 1
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			toks = append(toks, token{text: line[i:j]})
			i = j
		}
	}
	return toks
}

// coordinate parses a fractional coordinate. Some files write thirds and
// sixths as fractions ("1/3").
func coordinate(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return n / d, nil
	}
	return units.Number(s)
}
