// Package filter compiles card search text such as "rarity:mythic t:creature"
// into predicates over cube cards.
package filter

import (
	"strings"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// Predicate is a compiled filter.
type Predicate interface {
	// Match reports whether the card satisfies the filter.
	Match(card *cube.Card) bool

	// String returns the source text the predicate was compiled from.
	String() string
}

// Filter is the Predicate returned by Compile.
type Filter struct {
	expr string
	root node
}

// Compile parses expr into a Predicate.
// Empty text and "*" compile to a filter matching every card.
func Compile(expr string) (Predicate, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || trimmed == "*" {
		return &Filter{expr: expr, root: anyNode{}}, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{expr: trimmed, tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &SyntaxError{Expr: trimmed, Pos: p.tokens[p.pos].pos, Msg: "unexpected ')'"}
	}

	return &Filter{expr: expr, root: root}, nil
}

// MustCompile is like Compile but panics on malformed text.
func MustCompile(expr string) Predicate {
	f, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// Match implements Predicate.
func (f *Filter) Match(card *cube.Card) bool {
	return f.root.match(card)
}

// String implements Predicate.
func (f *Filter) String() string {
	return f.expr
}

// Count returns how many cards match the predicate.
func Count(pred Predicate, cards []cube.Card) int {
	n := 0
	for i := range cards {
		if pred.Match(&cards[i]) {
			n++
		}
	}
	return n
}

type node interface {
	match(card *cube.Card) bool
}

type anyNode struct{}

func (anyNode) match(*cube.Card) bool { return true }

type andNode []node

func (n andNode) match(card *cube.Card) bool {
	for _, child := range n {
		if !child.match(card) {
			return false
		}
	}
	return true
}

type orNode []node

func (n orNode) match(card *cube.Card) bool {
	for _, child := range n {
		if child.match(card) {
			return true
		}
	}
	return false
}

type notNode struct{ inner node }

func (n notNode) match(card *cube.Card) bool { return !n.inner.match(card) }

type parser struct {
	expr   string
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseOr() (node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	branches := orNode{first}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOr {
			break
		}
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return first, nil
	}
	return branches, nil
}

func (p *parser) parseAnd() (node, error) {
	var terms andNode
	for {
		tok, ok := p.peek()
		if !ok || tok.kind == tokOr || tok.kind == tokRParen {
			break
		}
		term, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		pos := len(p.expr)
		if tok, ok := p.peek(); ok {
			pos = tok.pos
		}
		return nil, &SyntaxError{Expr: p.expr, Pos: pos, Msg: "expected a term"}
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (p *parser) parseUnary() (node, error) {
	tok, _ := p.peek()
	switch tok.kind {
	case tokNot:
		p.pos++
		if _, ok := p.peek(); !ok {
			return nil, &SyntaxError{Expr: p.expr, Pos: tok.pos, Msg: "'-' must be followed by a term"}
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	case tokLParen:
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return nil, &SyntaxError{Expr: p.expr, Pos: tok.pos, Msg: "unbalanced '('"}
		}
		p.pos++
		return inner, nil
	case tokTerm:
		p.pos++
		return parseTerm(p.expr, tok)
	default:
		return nil, &SyntaxError{Expr: p.expr, Pos: tok.pos, Msg: "unexpected token"}
	}
}
