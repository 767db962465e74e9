package draft

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/filter"
)

// ErrUnsatisfiableSlot is wrapped when no alternative of a slot has candidates.
var ErrUnsatisfiableSlot = errors.New("no cards match any alternative")

// EstimateAsfan computes, for each card instance, the expected number of
// times one seat sees it across a full pass of the format. The result is keyed
// by card ID; cards are not modified.
//
// Without duplicates each candidate is weighted by its remaining mass
// (1 - asfan) and cards already at asfan >= 1 are excluded. This approximates
// sampling without replacement; it is not an exact probability.
func EstimateAsfan(f *Format, cards []cube.Card, compile CompileFunc) (map[string]float64, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyPool
	}
	if compile == nil {
		compile = filter.Compile
	}

	asfan := make([]float64, len(cards))
	all := make([]int, len(cards))
	for i := range all {
		all[i] = i
	}

	cache := make(map[string]filter.Predicate)
	predicate := func(alt string) filter.Predicate {
		if pred, ok := cache[alt]; ok {
			return pred
		}
		pred, err := compile(alt)
		if err != nil {
			pred = nil
		}
		cache[alt] = pred
		return pred
	}

	for p, pack := range f.Packs {
		for c, text := range pack.Slots {
			var sets [][]int
			for _, alt := range ParseSlot(text) {
				var matches []int
				if isAny(alt) {
					matches = all
				} else if pred := predicate(alt); pred != nil {
					for i := range cards {
						if pred.Match(&cards[i]) {
							matches = append(matches, i)
						}
					}
				}

				candidates := matches
				if !f.AllowDuplicates {
					candidates = nil
					for _, i := range matches {
						if asfan[i] < 1 {
							candidates = append(candidates, i)
						}
					}
				}
				if len(candidates) > 0 {
					sets = append(sets, candidates)
				}
			}

			if len(sets) == 0 {
				return nil, fmt.Errorf("pack %d slot %d (%s): %w", p+1, c+1, text, ErrUnsatisfiableSlot)
			}

			mass := 1 / float64(len(sets))
			for _, set := range sets {
				if f.AllowDuplicates {
					share := mass / float64(len(set))
					for _, i := range set {
						asfan[i] += share
					}
					continue
				}

				poolCount := 0.0
				for _, i := range set {
					poolCount += 1 - asfan[i]
				}
				if poolCount <= 0 {
					continue
				}
				for _, i := range set {
					asfan[i] += (1 - asfan[i]) * mass / poolCount
				}
			}
		}
	}

	out := make(map[string]float64, len(cards))
	for i, card := range cards {
		out[card.ID] += asfan[i]
	}
	return out, nil
}

// AsfanEntry is one row of an asfan report.
type AsfanEntry struct {
	CardID string  `json:"card_id"`
	Name   string  `json:"name"`
	Asfan  float64 `json:"asfan"`
}

// RankAsfan joins asfan values with card names, highest first, ties by name.
func RankAsfan(cards []cube.Card, asfan map[string]float64) []AsfanEntry {
	entries := make([]AsfanEntry, 0, len(cards))
	for _, card := range cards {
		entries = append(entries, AsfanEntry{CardID: card.ID, Name: card.Name, Asfan: asfan[card.ID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Asfan != entries[j].Asfan {
			return entries[i].Asfan > entries[j].Asfan
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// AsfanByName sums asfan over every copy of each card name.
func AsfanByName(cards []cube.Card, asfan map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	for _, card := range cards {
		out[card.Name] += asfan[card.ID]
	}
	return out
}
