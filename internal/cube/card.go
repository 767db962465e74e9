// Package cube models cube card lists: the card instances a draft is built from.
package cube

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rarity values as reported by Scryfall.
const (
	RarityCommon   = "common"
	RarityUncommon = "uncommon"
	RarityRare     = "rare"
	RarityMythic   = "mythic"
	RaritySpecial  = "special"
)

// Card is one physical card instance in a cube.
// Two copies of the same printing are two Cards with distinct IDs.
type Card struct {
	// Instance identifier, unique within a cube.
	ID string `json:"id"`

	// Scryfall printing identifier.
	ScryfallID string `json:"scryfall_id,omitempty"`

	// Basic card information
	Name       string `json:"name"`
	TypeLine   string `json:"type_line"`
	OracleText string `json:"oracle_text,omitempty"`
	SetCode    string `json:"set,omitempty"`

	// Mana information
	ManaCost string  `json:"mana_cost,omitempty"`
	CMC      float64 `json:"cmc"`

	// Colors and identity
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"color_identity"`

	Rarity string `json:"rarity"` // "common", "uncommon", "rare", "mythic", "special"

	// Power/Toughness (for creatures)
	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`

	// Cube-owner supplied tags (e.g. "removal", "fixing").
	Tags []string `json:"tags,omitempty"`
}

// Cube is a named, owned list of card instances.
type Cube struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the card carries the tag, ignoring case.
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// RarityRank orders rarities from common (0) to special (4).
// Unknown rarities rank -1.
func RarityRank(rarity string) int {
	switch strings.ToLower(rarity) {
	case RarityCommon, "c":
		return 0
	case RarityUncommon, "u":
		return 1
	case RarityRare, "r":
		return 2
	case RarityMythic, "m":
		return 3
	case RaritySpecial, "s":
		return 4
	default:
		return -1
	}
}

// AssignIDs gives every card without an instance ID a fresh one.
func AssignIDs(cards []Card) {
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = uuid.NewString()
		}
	}
}

// Validate checks that every card has a name and a unique instance ID.
func Validate(cards []Card) error {
	seen := make(map[string]int, len(cards))
	for i, card := range cards {
		if card.ID == "" {
			return fmt.Errorf("card %d (%q) has no id", i, card.Name)
		}
		if card.Name == "" {
			return fmt.Errorf("card %s has no name", card.ID)
		}
		if prev, ok := seen[card.ID]; ok {
			return fmt.Errorf("duplicate card id %s at positions %d and %d", card.ID, prev, i)
		}
		seen[card.ID] = i
	}
	return nil
}
