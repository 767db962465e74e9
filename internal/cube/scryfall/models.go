package scryfall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

// Card is the subset of a Scryfall card object the importer uses.
type Card struct {
	ID            string     `json:"id"`
	OracleID      string     `json:"oracle_id"`
	Name          string     `json:"name"`
	Layout        string     `json:"layout"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Power         string     `json:"power,omitempty"`
	Toughness     string     `json:"toughness,omitempty"`
	SetCode       string     `json:"set"`
	Rarity        string     `json:"rarity"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost,omitempty"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
}

// ToCubeCard converts a Scryfall card into a cube card without an instance id.
// Multi-faced cards take their missing top-level fields from the front face,
// and join oracle text from all faces.
func ToCubeCard(c *Card) cube.Card {
	out := cube.Card{
		ScryfallID:    c.ID,
		Name:          c.Name,
		TypeLine:      c.TypeLine,
		OracleText:    c.OracleText,
		SetCode:       c.SetCode,
		ManaCost:      c.ManaCost,
		CMC:           c.CMC,
		Colors:        c.Colors,
		ColorIdentity: c.ColorIdentity,
		Rarity:        c.Rarity,
		Power:         c.Power,
		Toughness:     c.Toughness,
	}

	if len(c.CardFaces) == 0 {
		return out
	}
	front := c.CardFaces[0]
	if out.ManaCost == "" {
		out.ManaCost = front.ManaCost
	}
	if out.TypeLine == "" {
		out.TypeLine = front.TypeLine
	}
	if out.Colors == nil {
		out.Colors = front.Colors
	}
	if out.Power == "" {
		out.Power = front.Power
		out.Toughness = front.Toughness
	}
	if out.OracleText == "" {
		texts := make([]string, 0, len(c.CardFaces))
		for _, face := range c.CardFaces {
			if face.OracleText != "" {
				texts = append(texts, face.OracleText)
			}
		}
		out.OracleText = strings.Join(texts, "\n//\n")
	}
	return out
}

// APIError is an error object returned by the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError is a 404 from the API.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
