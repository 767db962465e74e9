package scryfall

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// CardSource resolves card names to Scryfall cards. *Client implements it.
type CardSource interface {
	GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error)
}

// ImportResult is the outcome of importing a cube list.
type ImportResult struct {
	Cards    []cube.Card `json:"cards"`
	NotFound []string    `json:"not_found"`
}

// Importer turns plain-text cube lists into cube cards.
type Importer struct {
	source CardSource
}

// NewImporter creates an importer backed by source.
func NewImporter(source CardSource) *Importer {
	return &Importer{source: source}
}

// Import parses list text and fetches every distinct name once. Each copy in
// the list becomes its own card instance with a fresh id. Names Scryfall does
// not know are reported in NotFound and skipped.
func (im *Importer) Import(ctx context.Context, list string) (*ImportResult, error) {
	entries, err := cube.ParseList(list)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("cube list is empty")
	}

	var names []string
	seen := make(map[string]bool)
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if !seen[key] {
			seen[key] = true
			names = append(names, e.Name)
		}
	}

	found, notFound, err := im.source.GetCardsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	byName := make(map[string]*Card, len(found))
	for i := range found {
		card := &found[i]
		byName[strings.ToLower(card.Name)] = card
		// "Fire // Ice" is also found by its front face name
		if front, _, ok := strings.Cut(card.Name, " // "); ok {
			byName[strings.ToLower(front)] = card
		}
	}

	result := &ImportResult{NotFound: []string{}}
	missing := make(map[string]bool)
	for _, name := range notFound {
		missing[strings.ToLower(name)] = true
	}

	for _, e := range entries {
		card, ok := byName[strings.ToLower(e.Name)]
		if !ok {
			missing[strings.ToLower(e.Name)] = true
			continue
		}
		for i := 0; i < e.Count; i++ {
			result.Cards = append(result.Cards, ToCubeCard(card))
		}
	}
	for _, name := range names {
		if missing[strings.ToLower(name)] {
			result.NotFound = append(result.NotFound, name)
		}
	}

	cube.AssignIDs(result.Cards)

	log.Info().
		Int("entries", len(entries)).
		Int("cards", len(result.Cards)).
		Int("not_found", len(result.NotFound)).
		Msg("cube list imported")
	return result, nil
}
