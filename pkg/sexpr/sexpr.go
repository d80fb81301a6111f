// Package sexpr reads the s-expression files used to record and replay
// engine sessions. The grammar is minimal: atoms, double-quoted strings
// with backslash escapes, nested lists, and line comments starting with ';'.
package sexpr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Node is either an Atom or a List.
type Node interface {
	isNode()
}

// Atom is a bare symbol or a quoted string. Quoting information is not
// preserved; both forms compare equal as their unescaped text.
type Atom string

func (Atom) isNode() {}

// String renders the atom quoted when it contains structural characters.
func (a Atom) String() string { return Quote(string(a)) }

// List is an ordered sequence of nodes.
type List []Node

func (List) isNode() {}

// String renders the list in source form.
func (l List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, n := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s", n)
	}
	b.WriteByte(')')
	return b.String()
}

// Quote renders s as an atom, adding quotes and escapes when s contains
// whitespace or structural characters.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\r\n();\"\\") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Head returns the first atom of the list, or "" when the list is empty or
// starts with a sublist.
func (l List) Head() string {
	if len(l) == 0 {
		return ""
	}
	a, ok := l[0].(Atom)
	if !ok {
		return ""
	}
	return string(a)
}

// Find returns the first sublist whose head matches key.
func (l List) Find(key string) (List, bool) {
	for _, n := range l {
		if sub, ok := n.(List); ok && sub.Head() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every sublist whose head matches key, in order.
func (l List) FindAll(key string) []List {
	var out []List
	for _, n := range l {
		if sub, ok := n.(List); ok && sub.Head() == key {
			out = append(out, sub)
		}
	}
	return out
}

// Strings returns the atoms of the list after the head.
func (l List) Strings() []string {
	if len(l) < 2 {
		return nil
	}
	var out []string
	for _, n := range l[1:] {
		if a, ok := n.(Atom); ok {
			out = append(out, string(a))
		}
	}
	return out
}

// Str returns the single atom argument of a (key value) pair.
func (l List) Str() string {
	if len(l) < 2 {
		return ""
	}
	a, _ := l[1].(Atom)
	return string(a)
}

// Float parses the single atom argument as a float64.
func (l List) Float() (float64, error) {
	v := l.Str()
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("sexpr: %q is not a number in (%s ...)", v, l.Head())
	}
	return f, nil
}

// Parse reads every top-level s-expression from r.
func Parse(r io.Reader) ([]Node, error) {
	lx := &lexer{r: bufio.NewReader(r)}
	var nodes []Node
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			return nodes, nil
		}
		n, err := parseNode(lx, tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

// ParseString reads every top-level s-expression from s.
func ParseString(s string) ([]Node, error) {
	return Parse(strings.NewReader(s))
}

func parseNode(lx *lexer, tok token) (Node, error) {
	switch tok.kind {
	case tokAtom, tokString:
		return Atom(tok.text), nil
	case tokOpen:
		var list List
		for {
			t, err := lx.next()
			if err != nil {
				return nil, err
			}
			switch t.kind {
			case tokClose:
				return list, nil
			case tokEOF:
				return nil, fmt.Errorf("sexpr: unexpected EOF in list")
			default:
				n, err := parseNode(lx, t)
				if err != nil {
					return nil, err
				}
				list = append(list, n)
			}
		}
	case tokClose:
		return nil, fmt.Errorf("sexpr: unexpected ')'")
	default:
		return nil, fmt.Errorf("sexpr: unexpected token %q", tok.text)
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokAtom
	tokString
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	r      *bufio.Reader
	peeked *rune
}

func (lx *lexer) next() (token, error) {
	for {
		ch, err := lx.peek()
		if err == io.EOF {
			return token{kind: tokEOF}, nil
		}
		if err != nil {
			return token{}, err
		}

		switch {
		case unicode.IsSpace(ch):
			lx.read()
		case ch == ';':
			for {
				c, err := lx.read()
				if err != nil || c == '\n' {
					break
				}
			}
		case ch == '(':
			lx.read()
			return token{kind: tokOpen, text: "("}, nil
		case ch == ')':
			lx.read()
			return token{kind: tokClose, text: ")"}, nil
		case ch == '"':
			return lx.readString()
		default:
			return lx.readAtom()
		}
	}
}

func (lx *lexer) readString() (token, error) {
	lx.read() // opening quote

	var b strings.Builder
	for {
		ch, err := lx.read()
		if err != nil {
			return token{}, fmt.Errorf("sexpr: unterminated string")
		}
		switch ch {
		case '"':
			return token{kind: tokString, text: b.String()}, nil
		case '\\':
			esc, err := lx.read()
			if err != nil {
				return token{}, fmt.Errorf("sexpr: unterminated escape")
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(ch)
		}
	}
}

func (lx *lexer) readAtom() (token, error) {
	var b strings.Builder
	for {
		ch, err := lx.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';' {
			break
		}
		lx.read()
		b.WriteRune(ch)
	}
	return token{kind: tokAtom, text: b.String()}, nil
}

func (lx *lexer) peek() (rune, error) {
	if lx.peeked != nil {
		return *lx.peeked, nil
	}
	ch, _, err := lx.r.ReadRune()
	if err != nil {
		return 0, err
	}
	lx.peeked = &ch
	return ch, nil
}

func (lx *lexer) read() (rune, error) {
	if lx.peeked != nil {
		ch := *lx.peeked
		lx.peeked = nil
		return ch, nil
	}
	ch, _, err := lx.r.ReadRune()
	return ch, err
}
