package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/cubedraft/internal/cube"
)

func sumAsfan(asfan map[string]float64) float64 {
	var total float64
	for _, v := range asfan {
		total += v
	}
	return total
}

func TestEstimateAsfan_SingleWildcard(t *testing.T) {
	cards := makeCards(4)
	f := singlePackFormat("*")

	asfan, err := EstimateAsfan(&f, cards, nil)
	require.NoError(t, err)
	for _, c := range cards {
		assert.InDelta(t, 0.25, asfan[c.ID], 1e-9, c.ID)
	}
	assert.InDelta(t, 1.0, sumAsfan(asfan), 1e-9)
}

func TestEstimateAsfan_MassPerSlot(t *testing.T) {
	cards := makeCards(4)
	f := singlePackFormat("*", "*")

	asfan, err := EstimateAsfan(&f, cards, nil)
	require.NoError(t, err)
	for _, c := range cards {
		assert.InDelta(t, 0.5, asfan[c.ID], 1e-9)
	}
	assert.InDelta(t, 2.0, sumAsfan(asfan), 1e-9)
}

func TestEstimateAsfan_Duplicates(t *testing.T) {
	cards := makeCards(1)
	f := singlePackFormat("*", "*", "*")
	f.AllowDuplicates = true

	asfan, err := EstimateAsfan(&f, cards, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, asfan["c0"], 1e-9)

	f.AllowDuplicates = false
	_, err = EstimateAsfan(&f, cards, nil)
	assert.ErrorIs(t, err, ErrUnsatisfiableSlot)
}

func TestEstimateAsfan_Filtered(t *testing.T) {
	cards := []cube.Card{
		mythic("m1", "Dragon A"),
		mythic("m2", "Dragon B"),
		{ID: "c1", Name: "Bear A", Rarity: cube.RarityCommon},
		{ID: "c2", Name: "Bear B", Rarity: cube.RarityCommon},
	}

	t.Run("single alternative", func(t *testing.T) {
		f := singlePackFormat("rarity:mythic")
		asfan, err := EstimateAsfan(&f, cards, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, asfan["m1"], 1e-9)
		assert.InDelta(t, 0.5, asfan["m2"], 1e-9)
		assert.Zero(t, asfan["c1"])
	})

	t.Run("split mass", func(t *testing.T) {
		f := singlePackFormat("rarity:mythic,rarity:common")
		asfan, err := EstimateAsfan(&f, cards, nil)
		require.NoError(t, err)
		for _, id := range []string{"m1", "m2", "c1", "c2"} {
			assert.InDelta(t, 0.25, asfan[id], 1e-9, id)
		}
	})

	t.Run("unmatched alternative drops out", func(t *testing.T) {
		f := singlePackFormat("rarity:mythic,t:planeswalker")
		asfan, err := EstimateAsfan(&f, cards, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sumAsfan(asfan), 1e-9)
	})

	t.Run("unsatisfiable", func(t *testing.T) {
		f := singlePackFormat("*", "rarity:special")
		_, err := EstimateAsfan(&f, cards, nil)
		require.ErrorIs(t, err, ErrUnsatisfiableSlot)
		assert.Contains(t, err.Error(), "pack 1 slot 2")
	})
}

func TestEstimateAsfan_DoesNotMutateCards(t *testing.T) {
	cards := makeCards(3)
	before := append([]cube.Card(nil), cards...)
	f := singlePackFormat("*", "*")

	_, err := EstimateAsfan(&f, cards, nil)
	require.NoError(t, err)
	assert.Equal(t, before, cards)
}

func TestEstimateAsfan_EmptyPool(t *testing.T) {
	f := singlePackFormat("*")
	_, err := EstimateAsfan(&f, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestRankAsfan(t *testing.T) {
	cards := []cube.Card{
		{ID: "a", Name: "Zebra"},
		{ID: "b", Name: "Apple"},
		{ID: "c", Name: "Mango"},
		{ID: "d", Name: "Apple"},
	}
	asfan := map[string]float64{"a": 0.5, "b": 0.25, "c": 0.25, "d": 0.1}

	ranked := RankAsfan(cards, asfan)
	require.Len(t, ranked, 4)
	assert.Equal(t, "a", ranked[0].CardID)
	assert.Equal(t, "b", ranked[1].CardID)
	assert.Equal(t, "c", ranked[2].CardID)
	assert.Equal(t, "d", ranked[3].CardID)

	byName := AsfanByName(cards, asfan)
	assert.InDelta(t, 0.35, byName["Apple"], 1e-9)
}
