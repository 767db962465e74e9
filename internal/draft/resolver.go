package draft

import (
	"fmt"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/filter"
)

// CompileFunc compiles one filter alternative.
type CompileFunc func(expr string) (filter.Predicate, error)

// NextCardFunc resolves one slot. It returns the drawn card, any warnings
// produced along the way, and false if no card could be drawn.
type NextCardFunc func(slot Slot) (cube.Card, []string, bool)

type compiled struct {
	pred filter.Predicate
	err  error
}

// Resolver draws cards for slots from a shared pool.
type Resolver struct {
	pool            *Pool
	rng             *Source
	compile         CompileFunc
	allowDuplicates bool
	cache           map[string]compiled
}

// NewResolver creates a resolver over pool. A nil compile uses filter.Compile.
func NewResolver(pool *Pool, rng *Source, compile CompileFunc, allowDuplicates bool) *Resolver {
	if compile == nil {
		compile = filter.Compile
	}
	return &Resolver{
		pool:            pool,
		rng:             rng,
		compile:         compile,
		allowDuplicates: allowDuplicates,
		cache:           make(map[string]compiled),
	}
}

func (r *Resolver) predicate(expr string) (filter.Predicate, error) {
	if c, ok := r.cache[expr]; ok {
		return c.pred, c.err
	}
	pred, err := r.compile(expr)
	r.cache[expr] = compiled{pred: pred, err: err}
	return pred, err
}

// Next draws one card for the slot.
//
// Unfiltered slots draw from the whole pool without consuming a random draw
// for the alternative. Otherwise a random remaining alternative is tried; one
// that matches nothing (or fails to compile) is dropped with a warning and
// another is tried. Unless duplicates are allowed the drawn card is removed.
func (r *Resolver) Next(slot Slot) (cube.Card, []string, bool) {
	var messages []string
	var candidates []Handle

	if slot.Unfiltered() {
		candidates = r.pool.All()
		if len(candidates) == 0 {
			messages = append(messages, "no cards remaining in pool")
		}
	} else {
		remaining := make([]string, len(slot))
		copy(remaining, slot)
		for len(remaining) > 0 && len(candidates) == 0 {
			i := r.rng.Intn(len(remaining))
			alt := remaining[i]

			if isAny(alt) {
				candidates = r.pool.All()
				if len(candidates) == 0 {
					messages = append(messages, "no cards remaining in pool")
				}
			} else if pred, err := r.predicate(alt); err != nil {
				messages = append(messages, fmt.Sprintf("invalid filter %s: %v", alt, err))
			} else {
				candidates = r.pool.Candidates(pred)
				if len(candidates) == 0 {
					messages = append(messages, fmt.Sprintf("no cards matching filter: %s", alt))
				}
			}

			if len(candidates) == 0 {
				remaining = append(remaining[:i], remaining[i+1:]...)
			}
		}
	}

	if len(candidates) == 0 {
		return cube.Card{}, messages, false
	}

	h := candidates[r.rng.Intn(len(candidates))]
	card := *r.pool.Card(h)
	if !r.allowDuplicates {
		r.pool.Remove(h)
	}
	return card, messages, true
}

// NextCard adapts the resolver to the allocator's NextCardFunc.
func (r *Resolver) NextCard() NextCardFunc {
	return r.Next
}
