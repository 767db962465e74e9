package scryfall

import (
	"context"
	"fmt"
	"net/http"
)

// MaxBatchSize is the Scryfall limit for one /cards/collection request.
const MaxBatchSize = 75

// CardIdentifier identifies a card in a /cards/collection request.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Set             string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches cards by exact name in batches of MaxBatchSize.
// It returns the cards found and the names Scryfall did not recognize.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(names); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(names))

		identifiers := make([]CardIdentifier, 0, end-i)
		for _, name := range names[i:end] {
			identifiers = append(identifiers, CardIdentifier{Name: name})
		}

		var resp CollectionResponse
		err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/cards/collection", CollectionRequest{Identifiers: identifiers}, &resp)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}

		allCards = append(allCards, resp.Data...)
		for _, id := range resp.NotFound {
			allNotFound = append(allNotFound, id.Name)
		}
	}

	return allCards, allNotFound, nil
}
