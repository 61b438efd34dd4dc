// Package textedit patches a single value inside free-form text while leaving
// every other byte untouched. Patterns are regular expressions with a named
// "value" group; only the bytes of that group are ever replaced.
package textedit

import (
	"bytes"
	"fmt"
	"regexp"
)

// ValueGroup is the capture group name every Pattern must define.
const ValueGroup = "value"

// Pattern is a named regular expression locating one kind of value.
type Pattern struct {
	Name  string
	re    *regexp.Regexp
	group int
}

// Compile builds a Pattern. expr must contain a (?P<value>...) group.
func Compile(name, expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %s: %w", name, err)
	}
	group := re.SubexpIndex(ValueGroup)
	if group < 0 {
		return nil, fmt.Errorf("pattern %s has no %q group", name, ValueGroup)
	}
	return &Pattern{Name: name, re: re, group: group}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(name, expr string) *Pattern {
	p, err := Compile(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match is one occurrence of a pattern's value.
type Match struct {
	Start int // byte offset of the value
	End   int
	Line  int // 1-based line of the value
	Value string
}

// Find returns the first match in content.
func (p *Pattern) Find(content []byte) (Match, bool) {
	loc := p.re.FindSubmatchIndex(content)
	if loc == nil {
		return Match{}, false
	}
	return p.matchAt(content, loc, 0)
}

// FindFrom returns the first match whose whole expression starts at or after offset.
func (p *Pattern) FindFrom(content []byte, offset int) (Match, bool) {
	if offset < 0 || offset > len(content) {
		return Match{}, false
	}
	loc := p.re.FindSubmatchIndex(content[offset:])
	if loc == nil {
		return Match{}, false
	}
	return p.matchAt(content, loc, offset)
}

func (p *Pattern) matchAt(content []byte, loc []int, offset int) (Match, bool) {
	start, end := loc[2*p.group], loc[2*p.group+1]
	if start < 0 {
		return Match{}, false
	}
	start += offset
	end += offset
	return Match{
		Start: start,
		End:   end,
		Line:  bytes.Count(content[:start], []byte("\n")) + 1,
		Value: string(content[start:end]),
	}, true
}

// Replace returns a copy of content with each match's value replaced by
// value. Matches must not overlap; they are applied back to front so earlier
// offsets stay valid.
func Replace(content []byte, matches []Match, value string) []byte {
	out := append([]byte(nil), content...)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		var buf bytes.Buffer
		buf.Grow(len(out) - (m.End - m.Start) + len(value))
		buf.Write(out[:m.Start])
		buf.WriteString(value)
		buf.Write(out[m.End:])
		out = buf.Bytes()
	}
	return out
}
