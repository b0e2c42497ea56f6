// Package pattern compiles route pattern strings into matchable regular
// expressions and reverse templates for URL generation.
//
// A pattern is made of literal segments and placeholders. A placeholder is
// written {name} and matches a single path segment, or {name:regex} to
// constrain the capture with a custom regular expression:
//
//	/users/{id:\d+}
//	/articles/{category}/{slug}
//
// Trailing parts of a pattern may be marked optional with square brackets,
// which nest:
//
//	/archive[/{year}[/{month}]]
//
// Compilation is pure and deterministic: the same pattern string always
// compiles to an equivalent matcher, which is what makes the router's route
// cache valid.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Compiled is the result of compiling a route pattern. It can test a request
// path, extract named captures, and regenerate a concrete path from named
// arguments.
type Compiled struct {
	raw      string
	re       *regexp.Regexp
	names    []string
	variants []Variant
}

// Variant is one expansion of a pattern's optional groups, used for reverse
// path generation. A pattern with no optional groups has exactly one variant.
type Variant struct {
	Tokens []Token
}

// Token is a piece of a reverse template: either a literal string or a
// placeholder name, never both.
type Token struct {
	Literal string
	Param   string
}

// Data is the serializable form of a Compiled pattern, used by the router's
// route cache. Its layout is private to this module and not a cross-version
// compatibility contract.
type Data struct {
	Raw      string
	Expr     string
	Names    []string
	Variants []Variant
}

var nameRx = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Compile parses a route pattern and produces its matcher and reverse
// template. It fails on unbalanced braces or brackets, invalid or duplicate
// placeholder names, optional groups that are not at the end of the pattern,
// and placeholder regexes that do not compile.
func Compile(raw string) (*Compiled, error) {
	parts, err := parse(raw)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var names []string
	var expr strings.Builder
	expr.WriteString("^")
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
			expr.WriteString(regexp.QuoteMeta(p.text))
		case partPlaceholder:
			if !nameRx.MatchString(p.name) {
				return nil, fmt.Errorf("pattern %q: invalid placeholder name %q", raw, p.name)
			}
			if _, dup := seen[p.name]; dup {
				return nil, fmt.Errorf("pattern %q: duplicate placeholder name %q", raw, p.name)
			}
			seen[p.name] = struct{}{}
			names = append(names, p.name)
			fmt.Fprintf(&expr, "(?P<%s>%s)", p.name, p.expr)
		case partOptionalOpen:
			expr.WriteString("(?:")
		case partOptionalClose:
			expr.WriteString(")?")
		}
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", raw, err)
	}

	return &Compiled{
		raw:      raw,
		re:       re,
		names:    names,
		variants: expand(parts),
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for patterns
// known to be valid at program initialization.
func MustCompile(raw string) *Compiled {
	c, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// Raw returns the original pattern string.
func (c *Compiled) Raw() string {
	return c.raw
}

// Names returns the placeholder names in the order they appear.
func (c *Compiled) Names() []string {
	return c.names
}

// Match tests path against the compiled pattern. The match is exact, not a
// prefix match. On success it returns the named captures; placeholders inside
// optional groups that did not participate in the match are absent from the
// result.
func (c *Compiled) Match(path string) (map[string]string, bool) {
	idx := c.re.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}
	captures := make(map[string]string)
	for i, name := range c.re.SubexpNames() {
		if name == "" {
			continue
		}
		if start := idx[2*i]; start >= 0 {
			captures[name] = path[start:idx[2*i+1]]
		}
	}
	return captures, true
}

// BuildPath regenerates a concrete path from named arguments. Optional
// groups are included when arguments for all of their placeholders are
// present; the longest satisfiable variant wins. Missing a required
// placeholder is an error.
func (c *Compiled) BuildPath(args map[string]string) (string, error) {
	for i := len(c.variants) - 1; i >= 0; i-- {
		v := c.variants[i]
		path, ok := v.build(args)
		if ok {
			return path, nil
		}
		if i == 0 {
			// The shortest variant is the required part of the pattern.
			for _, t := range v.Tokens {
				if t.Param != "" {
					if _, present := args[t.Param]; !present {
						return "", fmt.Errorf("pattern %q: missing argument %q", c.raw, t.Param)
					}
				}
			}
		}
	}
	return "", fmt.Errorf("pattern %q: cannot build path from arguments", c.raw)
}

func (v Variant) build(args map[string]string) (string, bool) {
	var b strings.Builder
	for _, t := range v.Tokens {
		if t.Param == "" {
			b.WriteString(t.Literal)
			continue
		}
		val, ok := args[t.Param]
		if !ok {
			return "", false
		}
		b.WriteString(val)
	}
	return b.String(), true
}

// Data returns the serializable form of the compiled pattern.
func (c *Compiled) Data() Data {
	return Data{
		Raw:      c.raw,
		Expr:     c.re.String(),
		Names:    c.names,
		Variants: c.variants,
	}
}

// FromData reconstructs a compiled pattern from its serialized form without
// re-parsing the pattern syntax.
func FromData(d Data) (*Compiled, error) {
	re, err := regexp.Compile(d.Expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: corrupt cached expression: %w", d.Raw, err)
	}
	return &Compiled{
		raw:      d.Raw,
		re:       re,
		names:    d.Names,
		variants: d.Variants,
	}, nil
}

type partKind int

const (
	partLiteral partKind = iota
	partPlaceholder
	partOptionalOpen
	partOptionalClose
)

type part struct {
	kind partKind
	text string // literal text
	name string // placeholder name
	expr string // placeholder regex
}

// parse splits a raw pattern into literal, placeholder, and optional-group
// parts. Optional groups may only occur at the end of the pattern: once a
// group closes, only further closes may follow.
func parse(raw string) ([]part, error) {
	var parts []part
	var lit strings.Builder
	depth := 0
	closed := false

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{kind: partLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if closed && ch != ']' {
			return nil, fmt.Errorf("pattern %q: optional segments may only occur at the end", raw)
		}
		switch ch {
		case '{':
			end, err := matchBrace(raw, i)
			if err != nil {
				return nil, err
			}
			flush()
			name, expr := splitPlaceholder(raw[i+1 : end])
			parts = append(parts, part{kind: partPlaceholder, name: name, expr: expr})
			i = end
		case '}':
			return nil, fmt.Errorf("pattern %q: unbalanced '}'", raw)
		case '[':
			flush()
			parts = append(parts, part{kind: partOptionalOpen})
			depth++
		case ']':
			flush()
			if depth == 0 {
				return nil, fmt.Errorf("pattern %q: unbalanced ']'", raw)
			}
			parts = append(parts, part{kind: partOptionalClose})
			depth--
			closed = true
		default:
			lit.WriteByte(ch)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("pattern %q: unbalanced '['", raw)
	}
	flush()
	return parts, nil
}

// matchBrace finds the index of the '}' closing the '{' at open, tolerating
// nested braces inside custom placeholder regexes such as {id:\d{4}}.
func matchBrace(raw string, open int) (int, error) {
	depth := 0
	for i := open; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("pattern %q: unbalanced '{'", raw)
}

// splitPlaceholder separates a placeholder body into its name and regex,
// defaulting to a single-segment match when no custom regex is given.
func splitPlaceholder(body string) (name, expr string) {
	if i := strings.Index(body, ":"); i >= 0 {
		return strings.TrimSpace(body[:i]), strings.TrimSpace(body[i+1:])
	}
	return strings.TrimSpace(body), "[^/]+"
}

// expand flattens the parsed parts into reverse-template variants, ordered
// from fewest to most optional groups included. Because optional groups are
// strictly trailing and nested, each open bracket marks the boundary of one
// more variant.
func expand(parts []part) []Variant {
	var variants []Variant
	var tokens []Token
	snapshot := func() Variant {
		return Variant{Tokens: append([]Token(nil), tokens...)}
	}
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
			tokens = append(tokens, Token{Literal: p.text})
		case partPlaceholder:
			tokens = append(tokens, Token{Param: p.name})
		case partOptionalOpen:
			variants = append(variants, snapshot())
		}
	}
	return append(variants, snapshot())
}
