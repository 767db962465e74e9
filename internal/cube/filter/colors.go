package filter

import (
	"strings"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

var colorNames = map[string]string{
	"white": "w", "blue": "u", "black": "b", "red": "r", "green": "g",
	"azorius": "wu", "dimir": "ub", "rakdos": "br", "gruul": "rg", "selesnya": "gw",
	"orzhov": "wb", "izzet": "ur", "golgari": "bg", "boros": "rw", "simic": "gu",
}

type colorMode int

const (
	colorSet colorMode = iota
	colorColorless
	colorMulti
)

type colorNode struct {
	identity bool
	op       operator
	mode     colorMode
	want     uint8 // WUBRG bitmask
}

func parseColorTerm(field string, op operator, value string, fail func(string) error) (node, error) {
	n := colorNode{identity: field == "identity", op: op}
	v := strings.ToLower(value)
	switch v {
	case "c", "colorless":
		n.mode = colorColorless
		return n, nil
	case "m", "multi", "multicolor", "gold":
		if op != opContains && op != opEqual {
			return nil, fail("multicolor only supports ':' and '='")
		}
		n.mode = colorMulti
		return n, nil
	}

	if named, ok := colorNames[v]; ok {
		v = named
	}
	for _, r := range v {
		bit := colorBit(string(r))
		if bit == 0 {
			return nil, fail("unknown color " + string(r))
		}
		n.want |= bit
	}
	return n, nil
}

func colorBit(c string) uint8 {
	switch strings.ToUpper(c) {
	case "W":
		return 1
	case "U":
		return 2
	case "B":
		return 4
	case "R":
		return 8
	case "G":
		return 16
	}
	return 0
}

func colorMask(colors []string) uint8 {
	var mask uint8
	for _, c := range colors {
		mask |= colorBit(c)
	}
	return mask
}

func popcount(m uint8) int {
	n := 0
	for ; m != 0; m &= m - 1 {
		n++
	}
	return n
}

func (n colorNode) match(card *cube.Card) bool {
	colors := card.Colors
	if n.identity {
		colors = card.ColorIdentity
	}
	have := colorMask(colors)

	switch n.mode {
	case colorColorless:
		if n.op == opNotEqual {
			return have != 0
		}
		return have == 0
	case colorMulti:
		return popcount(have) >= 2
	}

	switch n.op {
	case opEqual:
		return have == n.want
	case opNotEqual:
		return have != n.want
	case opLessEqual:
		return have&^n.want == 0
	case opLess:
		return have&^n.want == 0 && have != n.want
	case opGreater:
		return have&n.want == n.want && have != n.want
	default: // ':' and '>='
		return have&n.want == n.want
	}
}
