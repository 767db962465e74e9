package draft

import (
	"fmt"
	"testing"

	"go.uber.org/goleak"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// makeCards returns n distinct common cards with IDs c0..c(n-1).
func makeCards(n int) []cube.Card {
	cards := make([]cube.Card, n)
	for i := range cards {
		cards[i] = cube.Card{
			ID:       fmt.Sprintf("c%d", i),
			Name:     fmt.Sprintf("Card %02d", i),
			TypeLine: "Creature — Bear",
			Rarity:   cube.RarityCommon,
		}
	}
	return cards
}

func mythic(id, name string) cube.Card {
	return cube.Card{ID: id, Name: name, TypeLine: "Legendary Creature — Dragon", Rarity: cube.RarityMythic}
}

func singlePackFormat(slots ...string) Format {
	return Format{Title: "Test", Packs: []Pack{{Slots: slots}}}
}

// assignedIndices flattens every populated index in the layout.
func assignedIndices(layout Layout) []int {
	var out []int
	for _, packs := range layout {
		for _, pack := range packs {
			for _, i := range pack.CardIndices {
				if i >= 0 {
					out = append(out, i)
				}
			}
		}
	}
	return out
}
