package filter

import (
	"fmt"
	"strings"
	"unicode"
)

// SyntaxError reports malformed filter text.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter %q at position %d: %s", e.Expr, e.Pos, e.Msg)
}

type tokenKind int

const (
	tokTerm tokenKind = iota
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string // term text with quotes removed
	pos  int
}

// tokenize splits filter text into terms, parentheses, negations and "or".
func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		case r == '-':
			// A '-' inside a term is consumed by the term loop below, so here it always negates.
			tokens = append(tokens, token{kind: tokNot, pos: i})
			i++
		default:
			start := i
			var sb strings.Builder
			for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' {
				if runes[i] == '"' {
					end := i + 1
					for end < len(runes) && runes[end] != '"' {
						end++
					}
					if end >= len(runes) {
						return nil, &SyntaxError{Expr: expr, Pos: i, Msg: "unterminated quote"}
					}
					sb.WriteString(string(runes[i+1 : end]))
					i = end + 1
					continue
				}
				sb.WriteRune(runes[i])
				i++
			}
			text := sb.String()
			if strings.EqualFold(text, "or") && !strings.ContainsRune(string(runes[start:i]), '"') {
				tokens = append(tokens, token{kind: tokOr, pos: start})
				continue
			}
			tokens = append(tokens, token{kind: tokTerm, text: text, pos: start})
		}
	}
	return tokens, nil
}
