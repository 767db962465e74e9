package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/cubedraft/internal/cube"
	"github.com/ramonehamilton/cubedraft/internal/cube/filter"
)

func TestValidate(t *testing.T) {
	cards := append(makeCards(4), mythic("m1", "Dragon"))

	tests := []struct {
		name     string
		format   Format
		cards    []cube.Card
		ok       bool
		messages []string
		contains string
	}{
		{
			name:     "satisfiable",
			format:   singlePackFormat("rarity:mythic", "*", "t:bear,t:dragon"),
			cards:    cards,
			ok:       true,
			messages: []string{},
		},
		{
			name:   "unmatched alternative",
			format: singlePackFormat("rarity:mythic,t:planeswalker"),
			cards:  cards,
			messages: []string{
				"pack 1 slot 1: no cards matching filter: t:planeswalker",
			},
		},
		{
			name:     "invalid filter",
			format:   singlePackFormat("*", "bogus:1"),
			cards:    cards,
			contains: `pack 1 slot 2: invalid filter bogus:1: `,
		},
		{
			name:     "empty pool",
			format:   singlePackFormat("*"),
			cards:    nil,
			messages: []string{"pack 1 slot 1: no cards in pool"},
		},
		{
			name:     "no packs",
			format:   Format{},
			cards:    cards,
			messages: []string{ErrNoPacks.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.format, tt.cards, nil)
			assert.Equal(t, tt.ok, result.OK)
			if tt.contains != "" {
				require.Len(t, result.Messages, 1)
				assert.Contains(t, result.Messages[0], tt.contains)
				assert.Contains(t, result.Messages[0], `unknown field "bogus"`)
				return
			}
			assert.Equal(t, tt.messages, result.Messages)
		})
	}
}

func TestValidate_CachesCompilation(t *testing.T) {
	calls := 0
	compile := func(expr string) (filter.Predicate, error) {
		calls++
		return filter.Compile(expr)
	}
	f := Format{Packs: []Pack{
		{Slots: []string{"rarity:common", "rarity:common"}},
		{Slots: []string{"rarity:common"}},
	}}

	result := Validate(&f, makeCards(3), compile)
	assert.True(t, result.OK)
	assert.Equal(t, 1, calls)
}

func TestValidate_AgreesWithGenerator(t *testing.T) {
	cards := makeCards(16)
	g := NewGenerator()

	t.Run("unsatisfiable slot fails both", func(t *testing.T) {
		f := singlePackFormat("rarity:mythic", "*")
		assert.False(t, Validate(&f, cards, nil).OK)

		_, err := g.Generate(context.Background(), GenerateRequest{Format: f, Cards: cards, Seats: 2, Seed: "v"})
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
	})

	t.Run("valid format generates", func(t *testing.T) {
		f := singlePackFormat("rarity:common", "*")
		assert.True(t, Validate(&f, cards, nil).OK)

		d, err := g.Generate(context.Background(), GenerateRequest{Format: f, Cards: cards, Seats: 2, Seed: "v"})
		require.NoError(t, err)
		assert.Len(t, d.Cards, 4)
	})

	structural := []struct {
		name   string
		format Format
	}{
		{
			name: "steps do not cover slots",
			format: Format{Title: "Steps", Packs: []Pack{{
				Slots: []string{"*", "*"},
				Steps: []Step{{Action: ActionPick, Amount: 1}},
			}}},
		},
		{
			name: "pack without slots",
			format: Format{Title: "Empty", Packs: []Pack{
				{Slots: []string{"*", "*"}},
				{},
			}},
		},
	}
	for _, tt := range structural {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.format, cards, nil)
			require.False(t, result.OK)

			d, err := g.Generate(context.Background(), GenerateRequest{Format: tt.format, Cards: cards, Seats: 2, Seed: "v"})
			assert.Nil(t, d)
			var genErr *GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, result.Messages, genErr.Messages)

			_, err = g.Simulate(context.Background(), SimulateRequest{
				GenerateRequest: GenerateRequest{Format: tt.format, Cards: cards, Seats: 2, Seed: "v"},
				Runs:            3,
			})
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, result.Messages, genErr.Messages)
		})
	}
}
