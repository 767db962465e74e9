package draft

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SimulateRequest configures a Monte Carlo check of a format.
type SimulateRequest struct {
	GenerateRequest

	Runs    int
	Workers int
}

// SimulateResult holds empirical per-card incidence for seat 0, keyed by card ID.
type SimulateResult struct {
	Runs      int                `json:"runs"`
	Failures  int                `json:"failures"`
	Incidence map[string]float64 `json:"incidence"`
}

// Simulate generates req.Runs independent allocations with seeds "<seed>#<i>"
// and averages how often each card lands in seat 0's packs. Runs execute in
// parallel; each owns its pool and source.
func (g *Generator) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResult, error) {
	if req.Runs <= 0 {
		return nil, fmt.Errorf("simulate: runs must be positive, got %d", req.Runs)
	}
	if len(req.Cards) == 0 {
		return nil, ErrEmptyPool
	}
	if len(req.Format.Packs) == 0 {
		return nil, ErrNoPacks
	}
	if problems := req.Format.Check(); len(problems) > 0 {
		return nil, &GenerationError{Messages: problems}
	}
	seats := g.ResolveSeats(req.GenerateRequest)
	if seats <= 0 {
		return nil, ErrNoSeats
	}
	seed := g.Seed(req.GenerateRequest)

	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		counts   = make(map[string]int)
		failures int
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < req.Runs; i++ {
		runSeed := fmt.Sprintf("%s#%d", seed, i)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			alloc := g.Allocate(req.GenerateRequest, seats, runSeed)

			local := make(map[string]int)
			if alloc.OK {
				for _, pack := range alloc.Layout[0] {
					for _, index := range pack.CardIndices {
						local[alloc.Cards[index].ID]++
					}
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if !alloc.OK {
				failures++
				return nil
			}
			for id, n := range local {
				counts[id] += n
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &SimulateResult{
		Runs:      req.Runs,
		Failures:  failures,
		Incidence: make(map[string]float64, len(req.Cards)),
	}
	succeeded := req.Runs - failures
	for _, card := range req.Cards {
		if succeeded > 0 {
			result.Incidence[card.ID] = float64(counts[card.ID]) / float64(succeeded)
		} else {
			result.Incidence[card.ID] = 0
		}
	}
	return result, nil
}
