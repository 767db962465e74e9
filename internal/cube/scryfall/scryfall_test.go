package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownCards = map[string]Card{
	"lightning bolt": {ID: "sf-bolt", Name: "Lightning Bolt", TypeLine: "Instant", ManaCost: "{R}", CMC: 1, Colors: []string{"R"}, ColorIdentity: []string{"R"}, Rarity: "common", SetCode: "lea"},
	"fire // ice": {
		ID: "sf-fire", Name: "Fire // Ice", CMC: 4, ColorIdentity: []string{"R", "U"}, Rarity: "uncommon", SetCode: "apc",
		CardFaces: []CardFace{
			{Name: "Fire", ManaCost: "{1}{R}", TypeLine: "Instant", OracleText: "Fire deals 2 damage divided as you choose.", Colors: []string{"R"}},
			{Name: "Ice", ManaCost: "{1}{U}", TypeLine: "Instant", OracleText: "Tap target permanent.", Colors: []string{"U"}},
		},
	},
}

func newTestClient(url string) *Client {
	return NewClient(Options{BaseURL: url, RequestsPerSecond: 1000, InitialBackoff: time.Millisecond})
}

func collectionServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, "/cards/collection", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req CollectionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Identifiers), MaxBatchSize)

		resp := CollectionResponse{Object: "list", Data: []Card{}, NotFound: []CardIdentifier{}}
		for _, id := range req.Identifiers {
			key := strings.ToLower(id.Name)
			if key == "fire" {
				key = "fire // ice"
			}
			if card, ok := knownCards[key]; ok {
				resp.Data = append(resp.Data, card)
			} else if strings.HasPrefix(key, "filler") {
				resp.Data = append(resp.Data, Card{ID: key, Name: id.Name, Rarity: "common"})
			} else {
				resp.NotFound = append(resp.NotFound, id)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_GetCardsByNames_Batches(t *testing.T) {
	var requests int32
	srv := collectionServer(t, &requests)
	defer srv.Close()

	names := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		names = append(names, fmt.Sprintf("Filler %d", i))
	}
	names = append(names, "Nonexistent Card")

	cards, notFound, err := newTestClient(srv.URL).GetCardsByNames(context.Background(), names)
	require.NoError(t, err)
	assert.Len(t, cards, 100)
	assert.Equal(t, []string{"Nonexistent Card"}, notFound)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestClient_Retries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(knownCards["lightning bolt"])
	}))
	defer srv.Close()

	card, err := newTestClient(srv.URL).GetCardByName(context.Background(), "Lightning Bolt")
	require.NoError(t, err)
	assert.Equal(t, "sf-bolt", card.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("exact") {
		case "missing":
			w.WriteHeader(http.StatusNotFound)
		case "bad":
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(APIError{Object: "error", Code: "bad_request", Status: 400, Details: "bad query"})
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	_, err := client.GetCardByName(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, err = client.GetCardByName(ctx, "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad query", apiErr.Details)

	_, err = client.GetCardByName(ctx, "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestToCubeCard_MultiFaced(t *testing.T) {
	fire := knownCards["fire // ice"]
	card := ToCubeCard(&fire)

	assert.Equal(t, "sf-fire", card.ScryfallID)
	assert.Empty(t, card.ID)
	assert.Equal(t, "Instant", card.TypeLine)
	assert.Equal(t, "{1}{R}", card.ManaCost)
	assert.Equal(t, []string{"R"}, card.Colors)
	assert.Contains(t, card.OracleText, "Tap target permanent.")
}

func TestImporter_Import(t *testing.T) {
	var requests int32
	srv := collectionServer(t, &requests)
	defer srv.Close()

	list := `# burn
2 Lightning Bolt
Fire
lightning bolt
Mystery Card
`
	result, err := NewImporter(newTestClient(srv.URL)).Import(context.Background(), list)
	require.NoError(t, err)

	require.Len(t, result.Cards, 4)
	ids := make(map[string]bool)
	for _, c := range result.Cards {
		assert.NotEmpty(t, c.ID)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 4, "every copy is a distinct instance")
	assert.Equal(t, "Fire // Ice", result.Cards[2].Name)
	assert.Equal(t, []string{"Mystery Card"}, result.NotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestImporter_EmptyList(t *testing.T) {
	_, err := NewImporter(nil).Import(context.Background(), "# nothing\n")
	assert.Error(t, err)
}
