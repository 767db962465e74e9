package filter

import (
	"strconv"
	"strings"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

type operator int

const (
	opContains operator = iota // ':'
	opEqual
	opNotEqual
	opLess
	opLessEqual
	opGreater
	opGreaterEqual
)

// Longest operators first so "<=" is not read as "<".
var operators = []struct {
	text string
	op   operator
}{
	{"!=", opNotEqual},
	{"<=", opLessEqual},
	{">=", opGreaterEqual},
	{":", opContains},
	{"=", opEqual},
	{"<", opLess},
	{">", opGreater},
}

var fieldAliases = map[string]string{
	"name": "name", "n": "name",
	"type": "type", "t": "type",
	"oracle": "oracle", "o": "oracle",
	"rarity": "rarity", "r": "rarity",
	"color": "color", "c": "color",
	"identity": "identity", "id": "identity", "ci": "identity",
	"cmc": "cmc", "mv": "cmc",
	"power": "power", "pow": "power",
	"toughness": "toughness", "tou": "toughness",
	"set": "set", "s": "set", "e": "set",
	"tag": "tag", "tags": "tag",
}

// parseTerm turns one "field op value" term, or a bare word, into a node.
func parseTerm(expr string, tok token) (node, error) {
	text := tok.text
	fieldEnd := 0
	for fieldEnd < len(text) && isFieldChar(text[fieldEnd]) {
		fieldEnd++
	}

	var op operator
	opLen := 0
	if fieldEnd > 0 {
		for _, candidate := range operators {
			if strings.HasPrefix(text[fieldEnd:], candidate.text) {
				op = candidate.op
				opLen = len(candidate.text)
				break
			}
		}
	}

	if opLen == 0 {
		word := strings.ToLower(text)
		return nameNode{value: word}, nil
	}

	field, ok := fieldAliases[strings.ToLower(text[:fieldEnd])]
	if !ok {
		return nil, &SyntaxError{Expr: expr, Pos: tok.pos, Msg: "unknown field " + strconv.Quote(text[:fieldEnd])}
	}
	value := text[fieldEnd+opLen:]
	if value == "" {
		return nil, &SyntaxError{Expr: expr, Pos: tok.pos, Msg: "missing value for " + field}
	}

	fail := func(msg string) error {
		return &SyntaxError{Expr: expr, Pos: tok.pos, Msg: msg}
	}

	switch field {
	case "name", "type", "oracle", "set", "tag":
		if op != opContains && op != opEqual && op != opNotEqual {
			return nil, fail("field " + field + " only supports ':', '=' and '!='")
		}
		return textNode{field: field, op: op, value: strings.ToLower(value)}, nil

	case "rarity":
		rank := cube.RarityRank(value)
		if rank < 0 {
			return nil, fail("unknown rarity " + strconv.Quote(value))
		}
		return numberNode{op: op, value: float64(rank), get: func(c *cube.Card) (float64, bool) {
			r := cube.RarityRank(c.Rarity)
			return float64(r), r >= 0
		}}, nil

	case "cmc", "power", "toughness":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fail("expected a number for " + field)
		}
		return numberNode{op: op, value: n, get: numericGetter(field)}, nil

	case "color", "identity":
		return parseColorTerm(field, op, value, fail)
	}

	return nil, fail("unsupported field " + field)
}

func isFieldChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func numericGetter(field string) func(*cube.Card) (float64, bool) {
	switch field {
	case "power":
		return func(c *cube.Card) (float64, bool) { return parseStat(c.Power) }
	case "toughness":
		return func(c *cube.Card) (float64, bool) { return parseStat(c.Toughness) }
	default:
		return func(c *cube.Card) (float64, bool) { return c.CMC, true }
	}
}

// parseStat reads a power/toughness value; "*" and similar never match.
func parseStat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

type nameNode struct{ value string }

func (n nameNode) match(card *cube.Card) bool {
	return strings.Contains(strings.ToLower(card.Name), n.value)
}

type textNode struct {
	field string
	op    operator
	value string
}

func (n textNode) match(card *cube.Card) bool {
	if n.field == "tag" {
		has := card.HasTag(n.value)
		if n.op == opNotEqual {
			return !has
		}
		return has
	}

	var got string
	switch n.field {
	case "name":
		got = card.Name
	case "type":
		got = card.TypeLine
	case "oracle":
		got = card.OracleText
	case "set":
		got = card.SetCode
	}
	got = strings.ToLower(got)

	switch n.op {
	case opEqual:
		return got == n.value
	case opNotEqual:
		return got != n.value
	default:
		if n.field == "set" {
			return got == n.value
		}
		return strings.Contains(got, n.value)
	}
}

type numberNode struct {
	op    operator
	value float64
	get   func(*cube.Card) (float64, bool)
}

func (n numberNode) match(card *cube.Card) bool {
	got, ok := n.get(card)
	if !ok {
		return false
	}
	switch n.op {
	case opLess:
		return got < n.value
	case opLessEqual:
		return got <= n.value
	case opGreater:
		return got > n.value
	case opGreaterEqual:
		return got >= n.value
	case opNotEqual:
		return got != n.value
	default:
		return got == n.value
	}
}
