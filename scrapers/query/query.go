// Package query parses the bracketed field/list notation used to describe what should be
// pulled out of a rendered page, e.g.
//
//	{
//	    products(the first 5)[] {
//	        product_name
//	        product_link
//	    }
//	}
//
// and compiles it into a response schema for the semantic query engine.
package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/generative-ai-go/genai"
)

// ErrSyntax is returned for malformed query text
var ErrSyntax = errors.New("query syntax error")

// Node is one requested field. A node with children is an object; List marks a repeated field.
type Node struct {
	Name        string
	Description string
	List        bool
	Children    []*Node
}

// Query is a parsed query
type Query struct {
	text   string
	Fields []*Node
}

// Parse parses query text
func Parse(text string) (*Query, error) {
	p := &parser{src: []rune(text)}
	fields, err := p.block()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after query", p.src[p.pos])
	}
	return &Query{text: strings.TrimSpace(text), Fields: fields}, nil
}

// MustParse is like Parse but panics on error. Meant for package-level query definitions.
func MustParse(text string) *Query {
	q, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns the query text as written
func (q *Query) String() string {
	return q.text
}

// FieldNames returns the top-level field names in declaration order
func (q *Query) FieldNames() []string {
	names := make([]string, 0, len(q.Fields))
	for _, f := range q.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Schema compiles the query into a structured-output schema. Every scalar is a nullable
// string so the engine can report a field as absent.
func (q *Query) Schema() *genai.Schema {
	return objectSchema(q.Fields)
}

func objectSchema(nodes []*Node) *genai.Schema {
	props := make(map[string]*genai.Schema, len(nodes))
	for _, n := range nodes {
		props[n.Name] = n.schema()
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

func (n *Node) schema() *genai.Schema {
	var item *genai.Schema
	if len(n.Children) > 0 {
		item = objectSchema(n.Children)
	} else {
		item = &genai.Schema{Type: genai.TypeString}
	}
	if n.List {
		return &genai.Schema{Type: genai.TypeArray, Items: item, Description: n.Description}
	}
	item.Description = n.Description
	item.Nullable = true
	return item
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(r rune) error {
	if c := p.peek(); c != r {
		if c == 0 {
			return p.errorf("expected %q, found end of query", r)
		}
		return p.errorf("expected %q, found %q", r, c)
	}
	p.pos++
	return nil
}

func (p *parser) block() ([]*Node, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var nodes []*Node
	seen := make(map[string]bool)
	for {
		switch p.peek() {
		case '}':
			p.pos++
			if len(nodes) == 0 {
				return nil, p.errorf("empty block")
			}
			return nodes, nil
		case 0:
			return nil, p.errorf("unexpected end of query")
		}
		n, err := p.field()
		if err != nil {
			return nil, err
		}
		if seen[n.Name] {
			return nil, p.errorf("duplicate field %q", n.Name)
		}
		seen[n.Name] = true
		nodes = append(nodes, n)
	}
}

func (p *parser) field() (*Node, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected field name, found %q", p.peek())
	}
	n := &Node{Name: name}

	if p.peek() == '(' {
		desc, err := p.description()
		if err != nil {
			return nil, err
		}
		n.Description = desc
	}
	if p.peek() == '[' {
		p.pos++
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		n.List = true
	}
	if p.peek() == '{' {
		children, err := p.block()
		if err != nil {
			return nil, err
		}
		n.Children = children
	}
	return n, nil
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || unicode.IsLetter(c) || (p.pos > start && unicode.IsDigit(c)) {
			p.pos++
			continue
		}
		break
	}
	return string(p.src[start:p.pos])
}

func (p *parser) description() (string, error) {
	p.pos++ // '('
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ')' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return "", p.errorf("unterminated description")
	}
	desc := strings.TrimSpace(string(p.src[start:p.pos]))
	p.pos++ // ')'
	return desc, nil
}
