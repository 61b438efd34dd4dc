// Package tomledit edits values in a TOML document in place. The document is
// validated and decoded with go-toml, and every key/value entry is indexed by
// the byte range go-toml's parser reports for its value, so a change rewrites
// that token and nothing else. Comments, blank lines, key order and spacing
// survive.
package tomledit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrNotString   = errors.New("value is not a string")
	// ErrNotEditable is returned for values that only exist inside inline
	// tables or arrays of tables, which have no standalone value token.
	ErrNotEditable = errors.New("value is not directly editable")
)

// Document is a parsed TOML file.
type Document struct {
	src     []byte
	data    map[string]any
	entries []entry
}

type entry struct {
	path       []string
	start, end int // zero length when go-toml reports no range (arrays, booleans, dates)
	line       int
	inArray    bool
}

// Value describes a value found at a key path.
type Value struct {
	Path     string
	Raw      string
	Text     string
	IsString bool
	Editable bool
	Line     int
}

// Parse validates src as TOML and indexes its key/value entries.
func Parse(src []byte) (*Document, error) {
	data := map[string]any{}
	if err := toml.Unmarshal(src, &data); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("invalid TOML at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}

	entries, err := index(src)
	if err != nil {
		return nil, err
	}

	return &Document{
		src:     append([]byte(nil), src...),
		data:    data,
		entries: entries,
	}, nil
}

// Bytes returns the current document text.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.src...)
}

// Decode unmarshals the document into v.
func (d *Document) Decode(v any) error {
	return toml.Unmarshal(d.src, v)
}

// HasTable reports whether path names a table (standard, dotted or inline).
func (d *Document) HasTable(path ...string) bool {
	v, ok := d.lookupData(path)
	if !ok {
		return false
	}
	_, isTable := v.(map[string]any)
	return isTable
}

// Lookup returns the value at path. ok is false when the document does not
// define path.
func (d *Document) Lookup(path ...string) (Value, bool) {
	raw, ok := d.lookupData(path)
	if !ok {
		return Value{}, false
	}

	v := Value{Path: strings.Join(path, ".")}
	if s, isString := raw.(string); isString {
		v.IsString = true
		v.Text = s
	} else {
		v.Text = fmt.Sprintf("%v", raw)
	}

	if e := d.find(path); e != nil {
		v.Editable = true
		v.Raw = string(d.src[e.start:e.end])
		v.Line = e.line
	}
	return v, true
}

// SetString replaces the string stored at path with s, keeping the original
// quoting style where it can represent s.
func (d *Document) SetString(path []string, s string) error {
	v, ok := d.Lookup(path...)
	dotted := strings.Join(path, ".")
	if !ok {
		return fmt.Errorf("%s: %w", dotted, ErrKeyNotFound)
	}
	if !v.IsString {
		return fmt.Errorf("%s: %w", dotted, ErrNotString)
	}
	if !v.Editable {
		return fmt.Errorf("%s: %w", dotted, ErrNotEditable)
	}

	e := d.find(path)
	if e.end == e.start {
		return fmt.Errorf("%s: %w", dotted, ErrNotEditable)
	}
	token := quoteLike(v.Raw, s)

	var buf bytes.Buffer
	buf.Grow(len(d.src) + len(token))
	buf.Write(d.src[:e.start])
	buf.WriteString(token)
	buf.Write(d.src[e.end:])

	updated, err := Parse(buf.Bytes())
	if err != nil {
		return fmt.Errorf("rewriting %s produced invalid TOML: %w", dotted, err)
	}
	*d = *updated
	return nil
}

// index records the value range of every top-level key/value expression under
// its full key path. Entries of inline tables are not expressions of their
// own and are not indexed.
func index(src []byte) ([]entry, error) {
	var (
		p           unstable.Parser
		entries     []entry
		table       []string
		inArray     bool
		arrayTables [][]string
	)

	p.Reset(src)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyPath(expr)
			if expr.Kind == unstable.ArrayTable {
				arrayTables = append(arrayTables, table)
			}
			inArray = expr.Kind == unstable.ArrayTable || underArrayTable(table, arrayTables)

		case unstable.KeyValue:
			path := append(append([]string(nil), table...), keyPath(expr)...)
			value := expr.Value()
			e := entry{path: path, inArray: inArray}
			if value.Raw.Length > 0 {
				e.start = int(value.Raw.Offset)
				e.end = e.start + int(value.Raw.Length)
				e.line = p.Shape(value.Raw).Start.Line
			} else {
				key := expr.Key()
				e.line = p.Shape(key.Node().Raw).Start.Line
			}
			entries = append(entries, e)
		}
	}
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return entries, nil
}

func keyPath(n *unstable.Node) []string {
	var keys []string
	it := n.Key()
	for it.Next() {
		keys = append(keys, string(it.Node().Data))
	}
	return keys
}

func underArrayTable(keys []string, arrays [][]string) bool {
	for _, prefix := range arrays {
		if len(keys) > len(prefix) && equalPath(keys[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}

func (d *Document) find(path []string) *entry {
	for i := range d.entries {
		e := &d.entries[i]
		if !e.inArray && equalPath(e.path, path) {
			return e
		}
	}
	return nil
}

func (d *Document) lookupData(path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur any = d.data
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// quoteLike renders s with the same delimiter as the raw token it replaces.
func quoteLike(raw, s string) string {
	switch {
	case strings.HasPrefix(raw, `"""`):
		return `"""` + escapeBasic(s) + `"""`
	case strings.HasPrefix(raw, `'''`) && !strings.Contains(s, `'''`):
		return `'''` + s + `'''`
	case strings.HasPrefix(raw, `'`) && !strings.ContainsAny(s, "'\n\r"):
		return `'` + s + `'`
	}
	return `"` + escapeBasic(s) + `"`
}

func escapeBasic(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
