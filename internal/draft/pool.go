package draft

import (
	"errors"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/filter"
)

// ErrEmptyPool is returned when an operation needs at least one card.
var ErrEmptyPool = errors.New("card pool is empty")

// Handle identifies one card instance inside a Pool.
// Handles stay valid after other cards are removed.
type Handle int

// Pool is the mutable multiset of cards available to one generation run.
//
// Cards live in an arena indexed by Handle. The live vector lists the handles
// still available; removal swaps the last live entry into the hole, so
// removing by identity is O(1) and never searches by value.
type Pool struct {
	arena []cube.Card
	live  []Handle
	where []int // arena index -> position in live, -1 once removed
}

// NewPool copies cards into a fresh pool.
func NewPool(cards []cube.Card) *Pool {
	p := &Pool{
		arena: make([]cube.Card, len(cards)),
		live:  make([]Handle, len(cards)),
		where: make([]int, len(cards)),
	}
	copy(p.arena, cards)
	for i := range cards {
		p.live[i] = Handle(i)
		p.where[i] = i
	}
	return p
}

// Len is the number of cards still in the pool.
func (p *Pool) Len() int {
	return len(p.live)
}

// Card returns the card behind a handle, removed or not.
func (p *Pool) Card(h Handle) *cube.Card {
	return &p.arena[h]
}

// Contains reports whether the handle is still in the pool.
func (p *Pool) Contains(h Handle) bool {
	return int(h) >= 0 && int(h) < len(p.where) && p.where[h] >= 0
}

// All returns the live handles in pool order.
func (p *Pool) All() []Handle {
	out := make([]Handle, len(p.live))
	copy(out, p.live)
	return out
}

// Candidates returns the live handles whose card matches pred, in pool order.
func (p *Pool) Candidates(pred filter.Predicate) []Handle {
	var out []Handle
	for _, h := range p.live {
		if pred.Match(&p.arena[h]) {
			out = append(out, h)
		}
	}
	return out
}

// Remove takes the card out of the pool. Removing twice is a no-op.
func (p *Pool) Remove(h Handle) {
	if !p.Contains(h) {
		return
	}
	pos := p.where[h]
	last := len(p.live) - 1
	moved := p.live[last]
	p.live[pos] = moved
	p.where[moved] = pos
	p.live = p.live[:last]
	p.where[h] = -1
}
